package analyzecmder

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginTop(1)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var errInterrupted = errors.New("interrupted")

// render prints the analysis under a header, formatted as markdown.
func render(w io.Writer, text string, width int) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return fmt.Errorf("could not create renderer: %w", err)
	}

	rendered, err := renderer.Render(text)
	if err != nil {
		return fmt.Errorf("could not render analysis: %w", err)
	}

	_, err = fmt.Fprintf(w, "%s\n%s", headerStyle.Render("Dream analysis"), rendered)
	return err
}

type resultMsg struct {
	body []byte
	err  error
}

// waitModel shows a spinner until the request finishes or the user quits.
type waitModel struct {
	spinner     spinner.Model
	result      *resultMsg
	interrupted bool
}

func newWaitModel() waitModel {
	return waitModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(spinnerStyle),
		),
	}
}

func (m waitModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.result = &msg
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.interrupted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m waitModel) View() string {
	if m.result != nil || m.interrupted {
		return ""
	}
	return fmt.Sprintf("%s Interpreting your dream... %s\n", m.spinner.View(), dimStyle.Render("(q to quit)"))
}

// waitWithSpinner runs fetch while a spinner is drawn on w.
func waitWithSpinner(ctx context.Context, w io.Writer, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newWaitModel(), tea.WithOutput(w), tea.WithContext(ctx))

	go func() {
		body, err := fetch(ctx)
		p.Send(resultMsg{body: body, err: err})
	}()

	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("could not run spinner: %w", err)
	}

	m, _ := final.(waitModel)
	if m.result == nil {
		if m.interrupted {
			return nil, errInterrupted
		}
		return nil, ctx.Err()
	}
	return m.result.body, m.result.err
}
