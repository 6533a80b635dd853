package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/poiesic/frontier/explore"
)

// statusSource is the part of an explorer the reporter reads.
type statusSource interface {
	Status() explore.Status
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)

// reporter periodically prints a status block for every thread.
type reporter struct {
	writer   io.Writer
	source   statusSource
	interval time.Duration
	styled   bool

	mu         sync.Mutex
	startTime  time.Time
	lastTime   time.Time
	lastFrames int64
}

func newReporter(writer io.Writer, source statusSource, interval time.Duration) *reporter {
	return &reporter{
		writer:   writer,
		source:   source,
		interval: interval,
		styled:   isTerminal(writer),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run reports every interval until ctx is done, then reports once more.
func (r *reporter) Run(ctx context.Context) {
	r.mu.Lock()
	r.startTime = time.Now()
	r.lastTime = r.startTime
	r.mu.Unlock()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Report()
			return
		case <-ticker.C:
			r.Report()
		}
	}
}

// Report prints the current status block.
func (r *reporter) Report() {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.source.Status()
	now := time.Now()

	var frames int64
	for _, ts := range st.Threads {
		frames += ts.Frames
	}
	rate := 0.0
	if dt := now.Sub(r.lastTime).Seconds(); dt > 0 {
		rate = float64(frames-r.lastFrames) / dt
	}
	r.lastTime = now
	r.lastFrames = frames

	var b strings.Builder
	header := fmt.Sprintf("[%s] nodes=%d frames=%d (%.0f/s)",
		now.Sub(r.startTime).Truncate(time.Second), st.Nodes, frames, rate)
	b.WriteString(r.style(headerStyle, header))
	b.WriteByte('\n')
	for _, ts := range st.Threads {
		line := fmt.Sprintf("  #%-3d %-13s %-24s node=%-8d %s",
			ts.ID, ts.State, ts.Status, ts.Target, progressText(ts))
		b.WriteString(r.style(stateStyle(ts.State), line))
		b.WriteByte('\n')
	}
	fmt.Fprint(r.writer, b.String())
}

func (r *reporter) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

func stateStyle(s explore.State) lipgloss.Style {
	switch s {
	case explore.StateFailed:
		return failedStyle
	case explore.StateStopped, explore.StateIdle:
		return stoppedStyle
	default:
		return activeStyle
	}
}

func progressText(ts explore.ThreadStatus) string {
	if ts.Denom <= 0 {
		return fmt.Sprintf("%d frames", ts.Numer)
	}
	return fmt.Sprintf("%d/%d (%.1f%%)", ts.Numer, ts.Denom, float64(ts.Numer)/float64(ts.Denom)*100.0)
}
