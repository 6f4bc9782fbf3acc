// SPDX-License-Identifier: MIT
package feed

import (
	"context"

	"rowwarp/internal/config"
	applog "rowwarp/internal/log"

	"golang.org/x/sync/errgroup"
)

// Input drives an analyzer until ctx is cancelled.
type Input interface {
	Run(ctx context.Context, a *Analyzer) error
}

// Run builds the input, analyzer, hub and publisher described by cfg and
// serves until ctx is cancelled.
func Run(ctx context.Context, cfg config.FeedConfig) error {
	wf, err := ParseWindowFunc(cfg.Window)
	if err != nil {
		applog.Warnf("Feed: %v, using %s", err, wf)
	}

	var (
		input      Input
		sampleRate = cfg.SampleRate
	)
	if cfg.WAVFile != "" {
		clip, err := LoadWAV(cfg.WAVFile)
		if err != nil {
			return err
		}
		sampleRate = clip.SampleRate
		input = NewWAVInput(clip)
	} else {
		if err := Initialize(); err != nil {
			return err
		}
		defer Terminate()
		input = NewCapture(CaptureConfig{
			Device:     cfg.Device,
			SampleRate: cfg.SampleRate,
			Gate:       cfg.Gate,
			Record:     cfg.Record,
		})
	}

	analyzer, err := NewAnalyzer(cfg.FFTSize, sampleRate, wf)
	if err != nil {
		return err
	}

	hub := NewHub()
	defer hub.Close()

	pub, err := NewPublisher(cfg.Interval, analyzer, hub, cfg.Bins)
	if err != nil {
		return err
	}
	pub.Start()
	defer pub.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return input.Run(ctx, analyzer) })
	g.Go(func() error { return Serve(ctx, cfg.Addr, cfg.Path, hub) })
	return g.Wait()
}
