package cli

import (
	"fmt"
	"io"
	"sync"

	"toonbench/internal/trial"
)

// plainObserver logs trial progress as plain lines for non-TTY output.
type plainObserver struct {
	mu  sync.Mutex
	out io.Writer
}

func (o *plainObserver) OnTrialStart(index, total int, model string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.out, "Trial %d/%d (%s)\n", index, total, model)
}

func (o *plainObserver) OnFormatEvent(event trial.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch event.Type {
	case trial.EventCounting:
		fmt.Fprintf(o.out, "  %s: counting tokens\n", event.Format)
	case trial.EventGenerating:
		fmt.Fprintf(o.out, "  %s: generating (%d tokens sent)\n", event.Format, event.Tokens)
	case trial.EventDone:
		fmt.Fprintf(o.out, "  %s: done in %.1fms\n", event.Format, event.LatencyMs)
	case trial.EventFailed:
		fmt.Fprintf(o.out, "  %s: failed: %s\n", event.Format, event.Error)
	}
}

func (o *plainObserver) OnTrialEnd(summary trial.TrialSummary, err error) {
	if err != nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.out, "Trial %s completed\n", summary.Timestamp)
}
