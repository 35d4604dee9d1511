package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

const panelWidth = 180

// controlPanel is the button column on the right edge of the viewer.
type controlPanel struct {
	container *widget.Container
	status    *widget.Text
	modeBtn   *widget.Button
}

func newControlPanel(v *Viewer) (*ebitenui.UI, *controlPanel) {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	hoverImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x55, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	fill := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: hoverImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(fill),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	p := &controlPanel{}
	p.status = widget.NewText(
		widget.TextOpts.Text("", &face, white),
		widget.TextOpts.WidgetOpts(fill),
	)
	p.modeBtn = button("Mode: auto", v.cycleMode)

	p.container = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionEnd, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)
	p.container.AddChild(p.status)
	p.container.AddChild(p.modeBtn)
	p.container.AddChild(button("Simplify step", v.cycleStep))
	p.container.AddChild(button("Rebuild grid", v.rebuildGrid))
	p.container.AddChild(button("Build graph", v.buildGraph))
	p.container.AddChild(button("Clear graph", v.clearGraph))
	p.container.AddChild(button("Clear cache", func() { v.svc.ClearCache() }))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(p.container)

	return &ebitenui.UI{Container: root}, p
}

func (p *controlPanel) refresh(v *Viewer) {
	if text := p.modeBtn.Text(); text != nil {
		text.Label = "Mode: " + v.mode.String()
	}

	route := "route: -"
	switch {
	case v.hasStart && v.hasEnd && v.pathOK:
		route = fmt.Sprintf("route: %d pts @%d", len(v.path), v.pathFrame)
	case v.hasStart && v.hasEnd:
		route = "route: none"
	}
	p.status.Label = fmt.Sprintf("nodes: %d\npending: %d\n%s", len(v.svc.Graph()), v.svc.Budgeter().Pending(), route)
}

func (p *controlPanel) contains(x, y int) bool {
	return image.Pt(x, y).In(p.container.GetWidget().Rect)
}
