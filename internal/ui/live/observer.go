package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"toonbench/internal/trial"
)

// Controller runs the live UI and implements trial.Observer.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_ = program.Start()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnTrialStart forwards trial start events to the UI.
func (c *Controller) OnTrialStart(index, total int, model string) {
	c.send(Event{Kind: EventTrialStart, Trial: index, Total: total, Model: model})
}

// OnFormatEvent forwards format status updates to the UI.
func (c *Controller) OnFormatEvent(event trial.Event) {
	c.send(Event{Kind: EventFormat, Format: event})
}

// OnTrialEnd forwards trial completion events to the UI.
func (c *Controller) OnTrialEnd(summary trial.TrialSummary, err error) {
	message := ""
	if err != nil {
		message = err.Error()
	}
	c.send(Event{Kind: EventTrialEnd, Error: message})
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
