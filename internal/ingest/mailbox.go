// SPDX-License-Identifier: MIT
package ingest

// Mailbox is a single-slot, latest-wins handoff between the network
// goroutine and the frame loop. Post never blocks; a value that has not
// been taken yet is replaced.
type Mailbox struct {
	slot chan []float64
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{slot: make(chan []float64, 1)}
}

// Post stores v, dropping any value that was not yet taken. The mailbox
// takes ownership of v. Intended for a single producer.
func (m *Mailbox) Post(v []float64) {
	for {
		select {
		case m.slot <- v:
			return
		default:
		}
		// Slot full: discard the stale value and try again.
		select {
		case <-m.slot:
		default:
		}
	}
}

// Take returns the pending value, if any, without blocking.
func (m *Mailbox) Take() ([]float64, bool) {
	select {
	case v := <-m.slot:
		return v, true
	default:
		return nil, false
	}
}

// C exposes the slot for select loops that want to wait for data.
func (m *Mailbox) C() <-chan []float64 {
	return m.slot
}
