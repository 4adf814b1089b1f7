package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// DeletionProgress renders deletion progress on the terminal, one bar
// per environment batch. Its Observe method matches the orchestrator's
// progress callback, so a run wires it up as:
//
//	opts.Progress = cli.NewDeletionProgress(os.Stderr).Observe
type DeletionProgress struct {
	mu          sync.Mutex
	writer      io.Writer
	environment string
	total       int
	done        int
	started     time.Time
}

// NewDeletionProgress creates a progress renderer writing to w.
// If w is nil, it defaults to os.Stderr.
func NewDeletionProgress(w io.Writer) *DeletionProgress {
	if w == nil {
		w = os.Stderr
	}
	return &DeletionProgress{writer: w}
}

// Observe records that done of total deletions in environment have been
// attempted. A change of environment starts a new bar; finishing a
// batch terminates the line.
func (p *DeletionProgress) Observe(environment string, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if total == 0 {
		return
	}

	if environment != p.environment {
		if p.environment != "" && p.done < p.total {
			// Previous batch ended early (cap or cancellation).
			fmt.Fprintln(p.writer)
		}
		p.environment = environment
		p.total = total
		p.started = time.Now()
	}
	p.done = done

	p.render()

	if done >= total {
		fmt.Fprintln(p.writer)
	}
}

func (p *DeletionProgress) render() {
	percent := float64(p.done) / float64(p.total) * 100
	barWidth := 40
	filled := int(float64(barWidth) * percent / 100)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	rate := float64(p.done) / time.Since(p.started).Seconds()

	fmt.Fprintf(p.writer, "\r%s: [%s] %.1f%% (%d/%d) %.1f del/s",
		p.environment, bar, percent, p.done, p.total, rate)
}
