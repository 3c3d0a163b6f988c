package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/lorenztrail/internal/dynamo"
	"github.com/san-kum/lorenztrail/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format. Dots are filled with
// the theme color of the pen that drew them.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := penColor(theme, canvas.Pens[row][col])

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill)
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// BrailleToSVG draws the trails onto a braille canvas that fills width by
// height pixels at scale pixels per dot, then converts it with CanvasToSVG.
func BrailleToSVG(buffers [][]dynamo.Vec3, cam *viz.Camera, width, height int, scale float64, theme viz.Theme) string {
	if scale <= 0 {
		return ""
	}
	if cam == nil {
		cam = viz.NewCamera()
	}
	cols := max(1, int(float64(width)/(2*scale)))
	rows := max(1, int(float64(height)/(4*scale)))
	canvas := viz.NewCanvas(cols, rows)
	viz.DrawScene(canvas, cam, viz.CreateAxesWireframe(80, 10, 3), buffers)
	return CanvasToSVG(canvas, scale, theme)
}

func penColor(theme viz.Theme, pen uint8) string {
	switch pen {
	case viz.PenAxes:
		return string(theme.Axes)
	case viz.PenMarker:
		return string(theme.Accent)
	default:
		return string(theme.TrailColor(int(pen - viz.PenTrail)))
	}
}

// TrajectoriesToSVG projects every buffer through cam and writes one path
// per trajectory, with the coordinate axes underneath. Non-finite points
// and points behind the camera break the path.
func TrajectoriesToSVG(buffers [][]dynamo.Vec3, cam *viz.Camera, width, height int, theme viz.Theme) string {
	if cam == nil {
		cam = viz.NewCamera()
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	axes := viz.CreateAxesWireframe(80, 10, 3)
	fmt.Fprintf(&sb, `<g stroke="%s" stroke-width="0.75">
`, theme.Axes)
	for _, e := range axes.Edges {
		x1, y1, _, ok1 := cam.ProjectF(e.Start, width, height)
		x2, y2, _, ok2 := cam.ProjectF(e.End, width, height)
		if ok1 && ok2 {
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x1, y1, x2, y2)
		}
	}
	sb.WriteString("</g>\n")

	for i, buf := range buffers {
		d := pathData(buf, cam, width, height)
		if d == "" {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, theme.TrailColor(i), d)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func pathData(points []dynamo.Vec3, cam *viz.Camera, width, height int) string {
	var sb strings.Builder
	pen := false
	for _, p := range points {
		x, y, _, ok := cam.ProjectF(p, width, height)
		if !ok {
			pen = false
			continue
		}
		if pen {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		} else {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			pen = true
		}
	}
	return sb.String()
}
