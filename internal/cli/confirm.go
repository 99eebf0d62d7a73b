package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is the bubbletea model for the yes/no prompt shown while
// the user edits a session workbook.
type ConfirmModel struct {
	Path    string
	Decided bool
	Apply   bool
}

// NewConfirmModel creates a confirmation prompt for the workbook at path.
func NewConfirmModel(path string) ConfirmModel {
	return ConfirmModel{Path: path}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y", "enter":
			m.Decided, m.Apply = true, true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.Decided, m.Apply = true, false
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Bulk edit in progress"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("workbook: ") + StyleValue.Render(m.Path))
	b.WriteString("\n\n")
	b.WriteString("Edit the workbook, save it, then confirm.\n")
	b.WriteString(StyleSuccess.Render("y") + StyleDim.Render("/enter apply  ") +
		StyleWarning.Render("n") + StyleDim.Render("/esc discard"))
	b.WriteString("\n")
	return b.String()
}

// confirmGate blocks on the interactive prompt and reports the user's
// decision. It satisfies the reconcile session's gate contract.
func confirmGate(ctx context.Context, path string) (bool, error) {
	prog := tea.NewProgram(NewConfirmModel(path), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	m, ok := final.(ConfirmModel)
	if !ok || !m.Decided {
		return false, nil
	}
	return m.Apply, nil
}
