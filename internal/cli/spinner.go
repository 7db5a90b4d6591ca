package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the delay between frames.
const spinnerInterval = 80 * time.Millisecond

// spinner animates a single status line until stopped. Only its own
// goroutine writes to w while it runs.
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func startSpinner(w io.Writer, message string) *spinner {
	s := &spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.stop:
			if i > 0 {
				fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", lipgloss.Width(s.message)+2))
			}
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(frame), StyleDim.Render(s.message))
		}
	}
}

// Stop clears the line and waits for the animation to end. It may be called
// more than once.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.stopped
}

// connect dials a store or cache backend behind a spinner. Slow dials are
// reported with their duration; failures name the backend.
func connect[T any](ctx context.Context, out console, backend string, dial func(context.Context) (T, error)) (T, error) {
	s := startSpinner(out.w, "Connecting to "+backend+"...")
	start := time.Now()
	v, err := dial(ctx)
	s.Stop()

	if err != nil {
		out.failure("%s unavailable", backend)
		return v, err
	}
	if elapsed := time.Since(start); elapsed >= time.Second {
		out.detail("Connected to %s in %s", backend, elapsed.Round(100*time.Millisecond))
	}
	return v, nil
}
