// SPDX-License-Identifier: MIT
package window

import (
	"fmt"
	"image/color"
	"strings"

	"rowwarp/internal/controls"

	"github.com/charmbracelet/harmonica"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	overlayX       = 12
	overlayY       = 12
	overlayLineH   = 16
	overlayCharW   = 6
	overlayPadding = 8
)

// overlay fades the controls panel in and out on a critically damped
// spring.
type overlay struct {
	spring  harmonica.Spring
	opacity float64
	vel     float64
	lines   []string
}

func newOverlay(fps int) *overlay {
	return &overlay{spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0)}
}

func (o *overlay) update(visible bool, entries []controls.Entry) {
	target := 0.0
	if visible {
		target = 1.0
	}
	o.opacity, o.vel = o.spring.Update(o.opacity, o.vel, target)
	o.opacity = min(max(o.opacity, 0), 1)

	o.lines = o.lines[:0]
	for _, e := range entries {
		marker := "  "
		if e.Selected {
			marker = "> "
		}
		o.lines = append(o.lines, fmt.Sprintf("%s%-20s %s", marker, e.Label, e.Value))
	}
	o.lines = append(o.lines, "", "up/down select  left/right adjust", "m mode  r defaults  s save  tab hide")
}

func (o *overlay) draw(screen *ebiten.Image) {
	if o.opacity < 0.01 {
		return
	}

	width := 0
	for _, l := range o.lines {
		width = max(width, len(l))
	}
	w := float32(width*overlayCharW + 2*overlayPadding)
	h := float32(len(o.lines)*overlayLineH + 2*overlayPadding)
	bg := color.RGBA{A: uint8(200 * o.opacity)}
	vector.DrawFilledRect(screen, overlayX, overlayY, w, h, bg, false)

	if o.opacity > 0.5 {
		ebitenutil.DebugPrintAt(screen, strings.Join(o.lines, "\n"), overlayX+overlayPadding, overlayY+overlayPadding)
	}
}
