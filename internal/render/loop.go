// SPDX-License-Identifier: MIT
package render

import (
	"image"
	"time"

	"rowwarp/internal/hue"
	"rowwarp/internal/ingest"
	applog "rowwarp/internal/log"
)

// Frame is what a presenter draws for one tick.
type Frame struct {
	Image *image.RGBA // Warped frame; valid until the next Step.
	Hue   float64     // Hue rotation in turns, [0, 1).
	Seq   uint64      // Tick counter, starting at 1.
}

// Loop is the tick boundary between the network and the presenter. Step is
// called once per display frame from a single goroutine.
type Loop struct {
	state *State
	inbox *ingest.Mailbox
	epoch time.Time
	seq   uint64

	accepted uint64
	rejected uint64
}

// NewLoop returns a loop reading new vectors from inbox. Hue phase is
// measured from epoch.
func NewLoop(state *State, inbox *ingest.Mailbox, epoch time.Time) *Loop {
	return &Loop{state: state, inbox: inbox, epoch: epoch}
}

// State returns the renderer state driven by the loop.
func (l *Loop) State() *State {
	return l.state
}

// Step takes the newest pending vector, if any, advances one smoothing step
// and composes the frame for now.
func (l *Loop) Step(now time.Time) Frame {
	if raw, ok := l.inbox.Take(); ok {
		if err := l.state.OnNewTarget(raw); err != nil {
			l.rejected++
			applog.Debugf("Render: Dropping vector of %d samples: %v", len(raw), err)
		} else {
			l.accepted++
		}
	}

	l.seq++
	return Frame{
		Image: l.state.Tick(),
		Hue:   hue.Phase(now.Sub(l.epoch), l.state.Settings().HuePeriod),
		Seq:   l.seq,
	}
}

// Counts returns how many inbound vectors were accepted and rejected.
func (l *Loop) Counts() (accepted, rejected uint64) {
	return l.accepted, l.rejected
}
