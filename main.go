// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rowwarp/cmd"
	"rowwarp/internal/config"
	"rowwarp/internal/controls"
	"rowwarp/internal/feed"
	"rowwarp/internal/ingest"
	applog "rowwarp/internal/log"
	"rowwarp/internal/present"
	"rowwarp/internal/present/window"
	"rowwarp/internal/render"
	"rowwarp/internal/source"
	"rowwarp/internal/tui"
	"rowwarp/pkg/build"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// main runs in three phases:
//
// 1. Startup: build info, arguments, logging, settings and the source
// image. Resource errors here are fatal.
//
// 2. Running: the websocket reader posts vectors to the mailbox while the
// presenter drives the frame loop on the main goroutine.
//
// 3. Shutdown: a signal or closing the window cancels the context and the
// reader and presenter return.
func main() {
	// ==================== STARTUP ====================

	if err := build.Initialize(); err != nil {
		applog.Debugf("Build: %v, using development metadata", err)
	}

	opts, err := cmd.ParseArgs(os.Args[1:], os.Stdout)
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if opts == nil {
		return // help or version
	}

	level, _ := applog.ParseLevel(opts.Config.LogLevel)
	if opts.Verbose {
		level = applog.LevelDebug
	}
	applog.SetLevel(level)
	applog.Debugf("Build: %s", build.GetBuildFlags())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch opts.Command {
	case cmd.CommandFeed:
		err = feed.Run(ctx, opts.Config.Feed)
	case cmd.CommandList:
		err = listDevices(opts.Interactive)
	case cmd.CommandTune:
		err = tune(opts.Config.Settings)
	case cmd.CommandDefaults:
		err = defaults(opts.Config.Settings, opts.Write)
	default:
		err = runRenderer(ctx, opts.Config)
	}
	if err != nil {
		applog.Fatalf("%v", err)
	}
}

func runRenderer(ctx context.Context, cfg *config.Config) error {
	settings, err := config.LoadSettings(cfg.Settings)
	if err != nil {
		applog.Fatalf("Settings: %v", err)
	}

	img, err := source.Load(cfg.Display.Image, cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		applog.Fatalf("Source: %v", err)
	}

	// ==================== RUNNING ====================

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inbox := ingest.NewMailbox()
	client := ingest.NewClient(ingest.ClientConfig{
		URL:              cfg.Ingest.URL,
		HandshakeTimeout: cfg.Ingest.HandshakeTimeout,
		ReadLimit:        cfg.Ingest.ReadLimit,
	}, inbox)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// No reconnect: when the stream ends the last frame stays up.
		if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			applog.Errorf("Ingest: %v", err)
		}
		s := client.Stats()
		applog.Infof("Ingest: Stream ended (%d received, %d dropped)", s.Received, s.Dropped)
	}()

	loop := render.NewLoop(render.NewState(settings, img), inbox, time.Now())

	if cfg.Display.Headless {
		h, err := present.NewHeadless(loop, present.HeadlessOptions{
			FPS:           cfg.Display.FPS,
			Frames:        cfg.Display.Frames,
			Rotate:        cfg.Display.Rotate,
			SnapshotDir:   cfg.Display.SnapshotDir,
			SnapshotEvery: cfg.Display.SnapshotEvery,
		})
		if err != nil {
			return err
		}
		err = h.Run(ctx)
		cancel()
		<-done
		return err
	}

	panel := controls.NewPanel(settings, cfg.Settings)
	err = window.Run(ctx, loop, panel, window.Options{
		Title:  cfg.Display.Title,
		FPS:    cfg.Display.FPS,
		Rotate: cfg.Display.Rotate,
	})

	// ==================== SHUTDOWN ====================

	cancel()
	<-done
	accepted, rejected := loop.Counts()
	applog.Infof("Render: %d vectors applied, %d rejected", accepted, rejected)
	return err
}

func listDevices(interactive bool) error {
	if err := feed.Initialize(); err != nil {
		return err
	}
	defer feed.Terminate()

	if interactive {
		d, ok, err := tui.PickDevice(feed.Devices)
		if err != nil || !ok {
			return err
		}
		fmt.Printf("feed:\n  device: %d\n  sample_rate: %.0f\n", d.ID, d.DefaultSampleRate)
		return nil
	}

	devices, err := feed.Devices()
	if err != nil {
		return err
	}
	feed.WriteDevices(os.Stdout, devices)
	return nil
}

func tune(path string) error {
	settings, err := config.LoadSettings(path)
	if err != nil {
		return err
	}
	m, err := tui.EditSettings(controls.NewPanel(settings, path))
	if err != nil {
		return err
	}
	if m.Dirty() {
		applog.Warnf("Tune: Unsaved changes discarded")
	}
	return nil
}

func defaults(path string, write bool) error {
	s := config.DefaultSettings()
	if write {
		if err := config.SaveSettings(path, s); err != nil {
			return err
		}
		applog.Infof("Defaults: Wrote %s", path)
		return nil
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(s)
}
