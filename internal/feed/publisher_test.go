// SPDX-License-Identifier: MIT
package feed

import (
	"testing"
	"time"

	"rowwarp/pkg/utils"
)

func TestPublisherSendsLeadingBins(t *testing.T) {
	a, _ := NewAnalyzer(256, testSampleRate, Hann)
	a.ProcessInt32(utils.GenerateComplexWave(256, testSampleRate))
	out := &utils.MockBroadcaster{}

	p, err := NewPublisher(2*time.Millisecond, a, out, 16)
	if err != nil {
		t.Fatal(err)
	}
	p.Start()
	p.Start() // no-op while running

	waitFor(t, func() bool { _, n := out.Last(); return n >= 3 })
	if err := p.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := p.Stop(); err != nil {
		t.Fatal(err)
	}

	last, _ := out.Last()
	if len(last) != 16 {
		t.Fatalf("len = %d, want 16", len(last))
	}
	mags := a.Magnitudes()
	for i := range last {
		if last[i] != mags[i] {
			t.Fatalf("bin %d = %v, want %v", i, last[i], mags[i])
		}
	}
}

func TestNewPublisherDefaults(t *testing.T) {
	a, _ := NewAnalyzer(256, testSampleRate, Hann)
	out := &utils.MockBroadcaster{}

	p, err := NewPublisher(0, a, out, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p.interval <= 0 {
		t.Errorf("interval = %s", p.interval)
	}
	if p.bins != a.Bins() {
		t.Errorf("bins = %d, want %d", p.bins, a.Bins())
	}

	if _, err := NewPublisher(time.Millisecond, nil, out, 0); err == nil {
		t.Error("expected error for nil analyzer")
	}
	if _, err := NewPublisher(time.Millisecond, a, nil, 0); err == nil {
		t.Error("expected error for nil broadcaster")
	}
}
