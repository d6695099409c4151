package utils

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Progress reports lump-by-lump progress of a long running command on stderr
type Progress struct {
	container *mpb.Progress
	bar       *mpb.Bar
	enabled   bool
	label     string

	// mu guards description, which the render goroutine reads.
	mu          sync.Mutex
	description string
}

var descLength = 12

// NewProgress creates a progress bar for total items. It stays silent
// unless enabled and stderr is a terminal.
func NewProgress(total int, label string, enabled bool) *Progress {
	p := &Progress{
		enabled: enabled && isTerminal(),
		label:   label,
	}

	if !p.enabled {
		return p
	}

	fmt.Fprintln(os.Stderr)

	p.container = mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	p.bar = p.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{C: decor.DindentRight}),
			decor.Any(func(statistics decor.Statistics) string {
				return p.Description()
			}, decor.WC{W: descLength, C: decor.DindentRight}),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)

	return p
}

// Update sets the bar to current and shows description next to it
func (p *Progress) Update(current int, description string) {
	if len(description) > descLength {
		description = description[:descLength-2] + ".."
	}
	p.mu.Lock()
	p.description = description
	p.mu.Unlock()

	if !p.enabled || p.bar == nil {
		return
	}
	p.bar.SetCurrent(int64(current))
}

// Description returns the text currently shown next to the bar
func (p *Progress) Description() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.description
}

// Callback adapts the bar to the (current, total, description) callbacks
// used by the exporter and the catalog writer
func (p *Progress) Callback() func(current, total int, description string) {
	return func(current, total int, description string) {
		p.Update(current, description)
	}
}

// Finish completes the progress bar and shuts down the container
func (p *Progress) Finish() {
	if !p.enabled || p.container == nil {
		return
	}

	p.bar.SetTotal(-1, true)
	p.container.Wait()

	fmt.Fprintln(os.Stderr)
}

// isTerminal checks if stderr is a terminal (TTY)
func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
