// SPDX-License-Identifier: MIT
package cmd

import (
	"io"
	"time"

	"rowwarp/internal/config"
	"rowwarp/pkg/build"

	"github.com/spf13/cobra"
)

// Commands selected on the command line.
const (
	CommandRender   = "render"
	CommandFeed     = "feed"
	CommandList     = "list"
	CommandTune     = "tune"
	CommandDefaults = "defaults"
)

// Options is the parsed command line: the command to run and the fully
// resolved configuration.
type Options struct {
	Command     string
	Config      *config.Config
	Verbose     bool
	Interactive bool // list: pick a device instead of printing them
	Write       bool // defaults: write the settings file instead of printing
}

// flagValues holds flag targets until the config file has been loaded;
// only flags the user set override it.
type flagValues struct {
	configPath   string
	settingsPath string
	url          string
	image        string
	width        int
	height       int
	fps          int
	rotate       bool
	headless     bool
	frames       uint64
	snapshotDir  string
	snapEvery    int
	feedAddr     string
	wavFile      string
	device       int
	interval     time.Duration
	bins         int
	record       string
}

// ParseArgs parses args. It returns nil options, and no error, when only
// help or version output was requested.
func ParseArgs(args []string, out io.Writer) (*Options, error) {
	buildInfo := build.GetBuildFlags()
	options := &Options{}
	var fv flagValues

	selectCommand := func(name string) func(*cobra.Command, []string) error {
		return func(c *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(c, &fv)
			if err != nil {
				return err
			}
			options.Command = name
			options.Config = cfg
			return nil
		}
	}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Warp an image row by row from a live vector stream",
		Version:       buildInfo.Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: selectCommand(CommandRender),
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.SetOut(out)

	// Feed server
	feedCmd := &cobra.Command{
		Use:   "feed",
		Short: "Serve FFT magnitudes of a WAV file or input device to renderers",
		Args:  cobra.NoArgs,
		RunE:  selectCommand(CommandFeed),
	}
	feedCmd.Flags().StringVarP(&fv.feedAddr, "addr", "a", config.DefaultFeedAddr, "Listen address")
	feedCmd.Flags().StringVarP(&fv.wavFile, "wav", "w", "", "Analyse this WAV file (looped) instead of a live input")
	feedCmd.Flags().IntVarP(&fv.device, "device", "d", config.DefaultFeedDevice,
		"Input device ID. Use 'list' command to see available devices.")
	feedCmd.Flags().DurationVar(&fv.interval, "interval", config.DefaultFeedInterval, "Interval between published vectors")
	feedCmd.Flags().IntVar(&fv.bins, "bins", 0, "Publish only the first N bins (0 = all)")
	feedCmd.Flags().StringVarP(&fv.record, "record", "r", "", "Also record the live input to this WAV file")
	rootCmd.AddCommand(feedCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio input devices",
		Args:  cobra.NoArgs,
		RunE:  selectCommand(CommandList),
	}
	listCmd.Flags().BoolVarP(&options.Interactive, "interactive", "i", false, "Pick a device interactively")
	rootCmd.AddCommand(listCmd)

	// Settings editor
	rootCmd.AddCommand(&cobra.Command{
		Use:   "tune",
		Short: "Edit the persisted display settings in the terminal",
		Args:  cobra.NoArgs,
		RunE:  selectCommand(CommandTune),
	})

	// Default settings
	defaultsCmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default display settings",
		Args:  cobra.NoArgs,
		RunE:  selectCommand(CommandDefaults),
	}
	defaultsCmd.Flags().BoolVar(&options.Write, "write", false, "Write them to the settings file instead")
	rootCmd.AddCommand(defaultsCmd)

	// Configuration
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&fv.configPath, "config", "c", "", "Config file (default rowwarp.yaml or config.yaml if present)")
	pf.StringVarP(&fv.settingsPath, "settings", "s", config.DefaultSettingsFile, "Persisted display settings file")
	pf.BoolVarP(&options.Verbose, "verbose", "v", false, "Show verbose output")

	// Renderer
	rf := rootCmd.Flags()
	rf.StringVarP(&fv.url, "url", "u", config.DefaultIngestURL, "Websocket URL of the vector stream")
	rf.StringVarP(&fv.image, "image", "i", config.DefaultImage, "Source image (png, jpeg, webp)")
	rf.IntVar(&fv.width, "width", config.DefaultWidth, "Surface width in pixels")
	rf.IntVar(&fv.height, "height", config.DefaultHeight, "Surface height in pixels")
	rf.IntVar(&fv.fps, "fps", config.DefaultFPS, "Frames per second")
	rf.BoolVar(&fv.rotate, "rotate", false, "Rotate the output 90 degrees counterclockwise")
	rf.BoolVar(&fv.headless, "headless", false, "Render without a window")
	rf.Uint64Var(&fv.frames, "frames", 0, "Headless: stop after N frames (0 = run until interrupted)")
	rf.StringVar(&fv.snapshotDir, "snapshot-dir", "", "Headless: write PNG snapshots to this directory")
	rf.IntVar(&fv.snapEvery, "snapshot-every", 0, "Headless: snapshot every Nth frame")

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	if options.Command == "" {
		return nil, nil
	}
	return options, nil
}

// resolveConfig loads the config file and applies the flags the user set.
func resolveConfig(c *cobra.Command, fv *flagValues) (*config.Config, error) {
	cfg, err := config.LoadConfig(fv.configPath)
	if err != nil {
		return nil, err
	}

	changed := c.Flags().Changed
	if changed("settings") {
		cfg.Settings = fv.settingsPath
	}

	// Renderer
	if changed("url") {
		cfg.Ingest.URL = fv.url
	}
	if changed("image") {
		cfg.Display.Image = fv.image
	}
	if changed("width") {
		cfg.Display.Width = fv.width
	}
	if changed("height") {
		cfg.Display.Height = fv.height
	}
	if changed("fps") {
		cfg.Display.FPS = fv.fps
	}
	if changed("rotate") {
		cfg.Display.Rotate = fv.rotate
	}
	if changed("headless") {
		cfg.Display.Headless = fv.headless
	}
	if changed("frames") {
		cfg.Display.Frames = fv.frames
	}
	if changed("snapshot-dir") {
		cfg.Display.SnapshotDir = fv.snapshotDir
	}
	if changed("snapshot-every") {
		cfg.Display.SnapshotEvery = fv.snapEvery
	}

	// Feed
	if changed("addr") {
		cfg.Feed.Addr = fv.feedAddr
	}
	if changed("wav") {
		cfg.Feed.WAVFile = fv.wavFile
	}
	if changed("device") {
		cfg.Feed.Device = fv.device
	}
	if changed("interval") {
		cfg.Feed.Interval = fv.interval
	}
	if changed("bins") {
		cfg.Feed.Bins = fv.bins
	}
	if changed("record") {
		cfg.Feed.Record = fv.record
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
