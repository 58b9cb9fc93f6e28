package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
)

const historyLen = 60

type stepMsg struct {
	step   int
	t      float64
	energy float64
}

type doneMsg struct {
	result *sim.Result
	err    error
}

// ProgressModel is the bubbletea model behind `run --progress`.
type ProgressModel struct {
	name    string
	steps   int
	step    int
	t       float64
	energy  []float64
	done    bool
	result  *sim.Result
	err     error
	cancel  context.CancelFunc
	aborted bool
}

func NewProgressModel(name string, steps int, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{
		name:   name,
		steps:  steps,
		energy: make([]float64, 0, historyLen),
		cancel: cancel,
	}
}

func (m ProgressModel) Init() tea.Cmd { return nil }

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case stepMsg:
		m.step = msg.step
		m.t = msg.t
		m.energy = append(m.energy, msg.energy)
		if len(m.energy) > historyLen {
			m.energy = m.energy[1:]
		}
	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var sb strings.Builder
	sb.WriteString(Title.Render(m.name))
	sb.WriteString("\n\n")

	percent := 0.0
	if m.steps > 0 {
		percent = float64(m.step) / float64(m.steps)
	}
	sb.WriteString(ProgressBar(percent, 40))
	sb.WriteString(fmt.Sprintf(" step %d/%d\n", m.step, m.steps))
	sb.WriteString(metricLine("t", fmt.Sprintf("%.6g", m.t)))
	sb.WriteString("\n")
	sb.WriteString(metricLine("energy", Sparkline(m.energy, historyLen)))
	sb.WriteString("\n\n")

	switch {
	case m.err != nil:
		sb.WriteString(StatusFailed.Render(m.err.Error()))
	case m.done:
		sb.WriteString(StatusRunning.Render("done"))
	default:
		sb.WriteString(KeyHint.Render("q to abort"))
	}
	sb.WriteString("\n")
	return sb.String()
}

// sender is the part of *tea.Program the observer needs.
type sender interface {
	Send(msg tea.Msg)
}

// progressObserver forwards a sample of steps to the program. It runs on
// the simulation goroutine.
type progressObserver struct {
	out   sender
	ham   dynamo.Hamiltonian
	every int
	last  int
}

func newProgressObserver(out sender, ham dynamo.Hamiltonian, steps int) *progressObserver {
	return &progressObserver{out: out, ham: ham, every: max(1, steps/200), last: steps}
}

func (o *progressObserver) OnStep(step int, u dynamo.State, t float64) {
	if step%o.every != 0 && step != o.last {
		return
	}
	o.out.Send(stepMsg{step: step, t: t, energy: o.ham.Energy(u)})
}

// RunWithProgress runs e while showing a live progress view. Aborting
// from the keyboard cancels the run through ctx.
func RunWithProgress(ctx context.Context, e *experiment.Experiment) (*sim.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := e.Config()
	p := tea.NewProgram(NewProgressModel(cfg.Name, cfg.Steps, cancel))
	e.Simulator().AddObserver(newProgressObserver(p, e.Field(), cfg.Steps))

	results := make(chan doneMsg, 1)
	go func() {
		res, err := e.Run(ctx)
		results <- doneMsg{result: res, err: err}
		p.Send(doneMsg{result: res, err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-results
		return nil, fmt.Errorf("progress view: %w", err)
	}

	done := <-results
	return done.result, done.err
}
