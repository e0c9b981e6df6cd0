package main

import (
	"image/color"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// StatusUI is the centered panel shown while a map loads or after a load failed.
type StatusUI struct {
	UI *ebitenui.UI

	panel    *widget.Container
	title    *widget.Text
	message  *widget.Text
	retryBtn *widget.Button
	visible  bool
}

// NewStatusUI builds the status panel. retry is called when the Retry button is clicked.
func NewStatusUI(width, height int, retry func()) *StatusUI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	s := &StatusUI{}
	s.title = widget.NewText(
		widget.TextOpts.Text("Loading", &face, white),
		widget.TextOpts.WidgetOpts(center),
	)
	s.message = widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xff, G: 0x99, B: 0x88, A: 0xff}),
		widget.TextOpts.WidgetOpts(center),
	)
	s.retryBtn = widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Retry", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(center),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if retry != nil {
				retry()
			}
		}),
	)

	s.panel = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width/2, height/4),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	s.panel.AddChild(s.title)
	s.panel.AddChild(s.message)
	s.panel.AddChild(s.retryBtn)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(s.panel)

	s.UI = &ebitenui.UI{Container: root}
	s.ShowLoading("")
	return s
}

// ShowLoading shows the panel without the Retry button.
func (s *StatusUI) ShowLoading(name string) {
	s.title.Label = "Loading " + name
	s.message.Label = ""
	s.retryBtn.GetWidget().Visibility = widget.Visibility_Hide
	s.setVisible(true)
}

// ShowError shows a failed load with the Retry button.
func (s *StatusUI) ShowError(err error) {
	s.title.Label = "Failed to load map"
	s.message.Label = err.Error()
	s.retryBtn.GetWidget().Visibility = widget.Visibility_Show
	s.setVisible(true)
}

func (s *StatusUI) Hide() {
	s.setVisible(false)
}

func (s *StatusUI) Visible() bool {
	return s.visible
}

func (s *StatusUI) setVisible(v bool) {
	s.visible = v
	s.panel.RequestRelayout()
}
