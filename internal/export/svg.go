// Package export renders a completed snapshot to SVG, the static
// image companion to the terminal live view, for embedding in reports
// or quick visual sanity checks without a full canvas renderer.
package export

import (
	"fmt"
	"strings"

	"github.com/climbfall/ropefall/internal/viz"
	"github.com/climbfall/ropefall/internal/world"
)

// CanvasToSVG converts a braille terminal canvas to an SVG of dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.At(row, col)
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SnapshotToSVG renders a single world.Snapshot as an SVG: the rope's
// traced polyline as a path, each point-mass record as a coloured
// circle sized by its Radius hint. Height maps to the Y axis
// (inverted, SVG grows downward); sideways offset maps to X.
func SnapshotToSVG(snap world.Snapshot, width, height int) string {
	minX, maxX, minY, maxY := 0.0, 1.0, 0.0, 1.0
	first := true
	visit := func(x, y float64) {
		if first {
			minX, maxX, minY, maxY = x, x, y, y
			first = false
			return
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	for _, b := range snap.Bodies {
		if b.Position != nil {
			visit(b.Position.X, b.Position.Y)
		}
		for _, p := range b.Polyline {
			visit(p.X, p.Y)
		}
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX, rangeY = maxX-minX, maxY-minY

	toScreen := func(x, y float64) (float64, float64) {
		sx := (x - minX) / rangeX * float64(width)
		sy := float64(height) - (y-minY)/rangeY*float64(height)
		return sx, sy
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, b := range snap.Bodies {
		switch b.Type {
		case world.RecordRope:
			if len(b.Polyline) < 2 {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="%.1f" d="M`, b.Color, maxFloat(b.Thickness*200, 1)))
			for i, p := range b.Polyline {
				x, y := toScreen(p.X, p.Y)
				if i == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
				}
			}
			sb.WriteString(`"/>
`)
		case world.RecordPointMass:
			if b.Position == nil {
				continue
			}
			x, y := toScreen(b.Position.X, b.Position.Y)
			r := maxFloat(b.Radius*40, 2)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, b.Color))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
