package problem

import "sync/atomic"

// Progress is a set of counters published by an exploration thread for
// display. All methods are safe for concurrent use; readers see eventually
// consistent values.
type Progress struct {
	status atomic.Pointer[string]
	numer  atomic.Int64
	denom  atomic.Int64
	frames atomic.Int64
}

// ProgressSnapshot is a point-in-time copy of a Progress.
type ProgressSnapshot struct {
	Status string
	Numer  int64
	Denom  int64
	Frames int64
}

// SetStatus publishes a short human-readable status string.
func (p *Progress) SetStatus(status string) {
	p.status.Store(&status)
}

// Status returns the most recently published status.
func (p *Progress) Status() string {
	if s := p.status.Load(); s != nil {
		return *s
	}
	return ""
}

func (p *Progress) SetNumer(n int64) { p.numer.Store(n) }
func (p *Progress) SetDenom(d int64) { p.denom.Store(d) }

// AddFrames increments the frame counter by n.
func (p *Progress) AddFrames(n int64) { p.frames.Add(n) }

func (p *Progress) Numer() int64  { return p.numer.Load() }
func (p *Progress) Denom() int64  { return p.denom.Load() }
func (p *Progress) Frames() int64 { return p.frames.Load() }

// Snapshot reads all counters.
func (p *Progress) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		Status: p.Status(),
		Numer:  p.Numer(),
		Denom:  p.Denom(),
		Frames: p.Frames(),
	}
}
