package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/dungeonnav/navigation"
)

var (
	backgroundColor = color.RGBA{R: 0x12, G: 0x12, B: 0x16, A: 0xff}
	walkableColor   = color.RGBA{R: 0x2a, G: 0x32, B: 0x2a, A: 0xff}
	wallColor       = color.RGBA{R: 0x55, G: 0x4a, B: 0x40, A: 0xff}
	edgeColor       = color.RGBA{R: 0x40, G: 0x80, B: 0xc0, A: 0x90}
)

func (v *Viewer) drawGrid(screen *ebiten.Image) {
	snap, ok := v.svc.GridSnapshot()
	if !ok {
		return
	}
	tr := v.svc.Transform()
	obstruction := v.lvl.ObstructionLayer()
	size := float32(v.scale() * tr.CellSize().X)
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			c := navigation.Cell{X: snap.Origin.X + x, Y: snap.Origin.Y + y}
			var clr color.Color
			switch {
			case snap.Cells[y*snap.Width+x]:
				clr = walkableColor
			case obstruction != nil && obstruction.HasTile(c):
				clr = wallColor
			default:
				continue
			}
			sx, sy := v.worldToScreenF(tr.CellToWorld(c))
			vector.FillRect(screen, sx, sy, size, size, clr, false)
		}
	}
}

func (v *Viewer) drawGraph(screen *ebiten.Image) {
	nodes := v.svc.Graph()
	for _, n := range nodes {
		ax, ay := v.worldToScreenF(n.World)
		for _, nb := range n.Neighbors {
			// each undirected edge once
			if nb <= n.ID || nb >= len(nodes) {
				continue
			}
			bx, by := v.worldToScreenF(nodes[nb].World)
			vector.StrokeLine(screen, ax, ay, bx, by, 1, edgeColor, true)
		}
	}
	for _, n := range nodes {
		x, y := v.worldToScreenF(n.World)
		vector.FillRect(screen, x-3, y-3, 6, 6, colornames.Skyblue, false)
		if v.zoom >= 1 {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("#%d", n.ID), int(x)+4, int(y)-14)
		}
	}
}

func (v *Viewer) drawRoute(screen *ebiten.Image) {
	if v.hasStart {
		v.drawMarker(screen, v.start, colornames.Limegreen)
	}
	if v.hasEnd {
		v.drawMarker(screen, v.end, colornames.Orangered)
	}
	if !v.hasStart || len(v.path) == 0 {
		return
	}
	clr := colornames.Gold
	px, py := v.worldToScreenF(v.start)
	for _, p := range v.path {
		x, y := v.worldToScreenF(p)
		vector.StrokeLine(screen, px, py, x, y, 2, clr, true)
		vector.StrokeRect(screen, x-2, y-2, 4, 4, 1, clr, false)
		px, py = x, y
	}
}

func (v *Viewer) drawMarker(screen *ebiten.Image, p cp.Vector, clr color.Color) {
	x, y := v.worldToScreenF(p)
	vector.FillRect(screen, x-5, y-5, 10, 10, clr, false)
}
