// SPDX-License-Identifier: MIT
package feed

import (
	"sync"
	"time"

	applog "rowwarp/internal/log"

	"github.com/pkg/errors"
)

// Broadcaster receives each published vector. The vector is only valid for
// the duration of the call.
type Broadcaster interface {
	Broadcast(vec []float64) error
}

// Publisher periodically copies the analyzer's spectrum to a broadcaster.
// It runs in its own goroutine between Start and Stop.
type Publisher struct {
	analyzer *Analyzer
	out      Broadcaster
	interval time.Duration
	bins     int

	mu       sync.Mutex
	ticker   *time.Ticker
	doneChan chan struct{}
	wg       sync.WaitGroup

	magBuffer []float64
	published uint64
}

// NewPublisher returns a stopped publisher. bins limits the vector to the
// leading bins; 0 publishes all of them.
func NewPublisher(interval time.Duration, analyzer *Analyzer, out Broadcaster, bins int) (*Publisher, error) {
	if analyzer == nil {
		return nil, errors.New("feed: publisher needs an analyzer")
	}
	if out == nil {
		return nil, errors.New("feed: publisher needs a broadcaster")
	}
	if interval <= 0 {
		interval = 33 * time.Millisecond
		applog.Warnf("Publisher: Invalid interval provided, defaulting to %s", interval)
	}
	if bins <= 0 || bins > analyzer.Bins() {
		bins = analyzer.Bins()
	}

	applog.Infof("Publisher: Initializing (Interval: %s, Bins: %d)", interval, bins)
	return &Publisher{
		analyzer:  analyzer,
		out:       out,
		interval:  interval,
		bins:      bins,
		magBuffer: make([]float64, analyzer.Bins()),
	}, nil
}

// Start launches the publishing goroutine. Calling Start on a running
// publisher is a no-op.
func (p *Publisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("Publisher: Start called but already running")
		return
	}
	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	ticker, done := p.ticker, p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-ticker.C:
				p.publish()
			case <-done:
				return
			}
		}
	}()
}

// Stop halts the goroutine and waits for it. Safe to call repeatedly.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}
	close(p.doneChan)
	p.ticker.Stop()
	p.ticker = nil
	p.mu.Unlock()

	p.wg.Wait()
	applog.Infof("Publisher: Stopped after %d vectors", p.published)
	return nil
}

// Close stops the publisher.
func (p *Publisher) Close() error {
	return p.Stop()
}

func (p *Publisher) publish() {
	if err := p.analyzer.MagnitudesInto(p.magBuffer); err != nil {
		applog.Errorf("Publisher: Error getting magnitudes: %v", err)
		return
	}
	if err := p.out.Broadcast(p.magBuffer[:p.bins]); err != nil {
		applog.Debugf("Publisher: Broadcast failed: %v", err)
		return
	}
	p.published++
}
