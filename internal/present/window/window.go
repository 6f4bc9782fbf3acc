// SPDX-License-Identifier: MIT

// Package window presents frames in a desktop window, rotating hue on the
// GPU.
package window

import (
	"context"
	_ "embed"
	"image/color"
	"math"
	"time"

	"rowwarp/internal/controls"
	applog "rowwarp/internal/log"
	"rowwarp/internal/present"
	"rowwarp/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
)

//go:embed hue.kage
var hueShader []byte

// Options configures the window.
type Options struct {
	Title  string
	FPS    int
	Rotate bool
}

var keyActions = map[ebiten.Key]controls.Action{
	ebiten.KeyTab:        controls.ActionToggleOverlay,
	ebiten.KeyArrowUp:    controls.ActionUp,
	ebiten.KeyArrowDown:  controls.ActionDown,
	ebiten.KeyArrowRight: controls.ActionInc,
	ebiten.KeyArrowLeft:  controls.ActionDec,
	ebiten.KeyM:          controls.ActionToggleMode,
	ebiten.KeyR:          controls.ActionRestoreDefaults,
	ebiten.KeyS:          controls.ActionSave,
}

type game struct {
	ctx   context.Context
	loop  *render.Loop
	panel *controls.Panel

	frame  *ebiten.Image
	shader *ebiten.Shader
	geoM   ebiten.GeoM
	hue    float64

	width, height    int // frame size
	screenW, screenH int // after rotation

	overlay *overlay
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func Run(ctx context.Context, loop *render.Loop, panel *controls.Panel, opts Options) error {
	b := loop.State().Source().Bounds()
	g := &game{
		ctx:     ctx,
		loop:    loop,
		panel:   panel,
		width:   b.Dx(),
		height:  b.Dy(),
		frame:   ebiten.NewImage(b.Dx(), b.Dy()),
		overlay: newOverlay(opts.FPS),
	}
	g.screenW, g.screenH = present.RotatedBounds(g.width, g.height, opts.Rotate)
	if opts.Rotate {
		// Quarter turn counterclockwise, then shift back on screen.
		g.geoM.Rotate(-math.Pi / 2)
		g.geoM.Translate(0, float64(g.width))
	}

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(g.screenW, g.screenH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(opts.FPS)

	applog.Infof("Window: Opening %dx%d at %d fps", g.screenW, g.screenH, opts.FPS)
	if err := ebiten.RunGame(g); err != nil {
		return errors.Wrap(err, "running window")
	}
	return nil
}

func (g *game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.shader == nil {
		s, err := ebiten.NewShader(hueShader)
		if err != nil {
			return errors.Wrap(err, "compiling hue shader")
		}
		g.shader = s
	}

	g.handleInput()

	f := g.loop.Step(time.Now())
	g.frame.WritePixels(f.Image.Pix)
	g.hue = f.Hue
	g.overlay.update(g.panel.Visible(), g.panel.Entries())
	return nil
}

func (g *game) handleInput() {
	for key, action := range keyActions {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		refresh, err := g.panel.Apply(action)
		if err != nil {
			applog.Warnf("Window: %v", err)
		}
		if refresh {
			if err := g.loop.State().Reconfigure(); err != nil {
				applog.Warnf("Window: Keeping previous target: %v", err)
			}
		}
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.White)
	if g.shader == nil {
		return
	}

	op := &ebiten.DrawRectShaderOptions{}
	op.GeoM = g.geoM
	op.Images[0] = g.frame
	op.Uniforms = map[string]any{"Hue": float32(g.hue)}
	screen.DrawRectShader(g.width, g.height, g.shader, op)

	g.overlay.draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}
