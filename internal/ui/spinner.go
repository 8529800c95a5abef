// Package ui provides terminal feedback for long-running operations such
// as metadata lookups and transfers.
package ui

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows activity on stderr while an operation runs. On
// non-terminal output, or when NO_COLOR is set, it degrades to a single
// static line.
type Spinner struct {
	message string
	mu      sync.Mutex
	active  bool
	done    chan struct{}
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		done:    make(chan struct{}),
	}
}

// Start begins spinning.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	if !isTerminal() || os.Getenv("NO_COLOR") != "" {
		fmt.Fprintf(os.Stderr, "%s...\n", s.message)
		return
	}

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.done:
				fmt.Fprintf(os.Stderr, "\r\033[K")
				return
			case <-ticker.C:
				s.mu.Lock()
				if s.active {
					fmt.Fprintf(os.Stderr, "\r%s %s", frames[i], s.message)
					i = (i + 1) % len(frames)
				}
				s.mu.Unlock()
			}
		}
	}()
}

// Stop halts the spinner and optionally prints a final line.
func (s *Spinner) Stop(finalMessage string) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.mu.Unlock()

	close(s.done)
	time.Sleep(100 * time.Millisecond)

	if finalMessage != "" {
		fmt.Fprintf(os.Stderr, "\r\033[K%s\n", finalMessage)
	}
}

// While runs fn under a spinner and reports its outcome.
func While(message string, fn func() error) error {
	s := NewSpinner(message)
	s.Start()
	err := fn()
	if err != nil {
		s.Stop(fmt.Sprintf("✗ %s", err.Error()))
	} else {
		s.Stop("✓ Done")
	}
	return err
}

func isTerminal() bool {
	fileInfo, _ := os.Stderr.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
