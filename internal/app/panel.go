package app

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/landmarker/internal/camera"
	"github.com/philipparndt/landmarker/pkg/analysis"
	"github.com/philipparndt/landmarker/pkg/landmark"
	"github.com/philipparndt/landmarker/pkg/stl"
)

// panel is the side bar with model info, group coverage and actions
type panel struct {
	app *App

	modelInfo *widget.Label
	groups    *widget.Select
	coverage  *widget.Label
	history   *widget.Label
	status    *widget.Label
	undo      *widget.Button
	redo      *widget.Button

	content fyne.CanvasObject
}

func newPanel(a *App) *panel {
	p := &panel{
		app:       a,
		modelInfo: widget.NewLabel(""),
		coverage:  widget.NewLabel(""),
		history:   widget.NewLabel(""),
		status:    widget.NewLabel(""),
	}
	p.undo = widget.NewButton("Undo", func() { a.ctrl.Undo() })
	p.redo = widget.NewButton("Redo", func() { a.ctrl.Redo() })
	p.coverage.TextStyle = fyne.TextStyle{Monospace: true}
	p.status.Wrapping = fyne.TextWrapWord

	p.groups = widget.NewSelect(nil, func(label string) {
		set := a.ctrl.Set()
		if label == "" || label == set.ActiveLabel() {
			return
		}
		if err := set.SetActiveGroup(label); err != nil {
			a.logger.Error().Err(err).Msg("failed to change active group")
		}
	})

	views := container.NewGridWithColumns(3,
		widget.NewButton("Front", func() { a.camCtl.SetView(camera.ViewFront) }),
		widget.NewButton("Left", func() { a.camCtl.SetView(camera.ViewLeft) }),
		widget.NewButton("Top", func() { a.camCtl.SetView(camera.ViewTop) }),
		widget.NewButton("Back", func() { a.camCtl.SetView(camera.ViewBack) }),
		widget.NewButton("Right", func() { a.camCtl.SetView(camera.ViewRight) }),
		widget.NewButton("Reset", func() { a.camCtl.Reset() }),
	)

	instructions := widget.NewLabel(
		"Click the mesh to place the next landmark of the active group\n" +
			"Drag a landmark to move the selection\n" +
			"Ctrl/Cmd+click toggles selection\n" +
			"Shift+drag selects visible landmarks in a box\n" +
			"Drag elsewhere to rotate, right drag pans, scroll zooms",
	)
	instructions.Wrapping = fyne.TextWrapWord

	box := container.NewVBox(
		widget.NewLabelWithStyle("Model", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.modelInfo,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Active group", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.groups,
		p.coverage,
		widget.NewSeparator(),
		p.history,
		container.NewGridWithColumns(2,
			p.undo,
			p.redo,
			widget.NewButton("Snapshot", func() { a.ctrl.Snapshot() }),
			widget.NewButton("Save", func() { a.save() }),
		),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("View", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		views,
		widget.NewSeparator(),
		instructions,
		widget.NewSeparator(),
		p.status,
	)

	scroll := container.NewVScroll(box)
	scroll.SetMinSize(fyne.NewSize(280, 0))
	p.content = scroll
	return p
}

func (p *panel) showModel(model *stl.Model) {
	stats := analysis.AnalyzeMesh(model)
	p.modelInfo.SetText(fmt.Sprintf(
		"%s\nTriangles: %d\nSurface area: %.2f\nSize: %.2f x %.2f x %.2f",
		model.ID,
		stats.TriangleCount,
		stats.SurfaceArea,
		stats.Dimensions.X, stats.Dimensions.Y, stats.Dimensions.Z,
	))
}

// bind shows set and follows its changes
func (p *panel) bind(set *landmark.Set) {
	p.groups.Options = set.Labels()
	set.Observe(func(landmark.Change) { p.refresh() })
	p.refresh()
}

func (p *panel) refresh() {
	set := p.app.ctrl.Set()
	if set == nil {
		return
	}
	if p.groups.Selected != set.ActiveLabel() {
		p.groups.SetSelected(set.ActiveLabel())
	}

	report := analysis.AnalyzeLandmarks(set, nil)
	var b strings.Builder
	for _, g := range report.Groups {
		marker := " "
		if g.Label == set.ActiveLabel() {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %-10s %3d/%-3d", marker, g.Label, g.Placed, g.Total)
		if g.Selected > 0 {
			fmt.Fprintf(&b, " (%d sel)", g.Selected)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-10s %3d/%-3d", "total", report.Placed, report.Total)
	p.coverage.SetText(b.String())

	p.history.SetText(fmt.Sprintf("History: %d of %d", set.HistoryPointer()+1, len(set.History())))
	setEnabled(p.undo, set.CanUndo())
	setEnabled(p.redo, set.CanRedo())
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (p *panel) setStatus(format string, args ...any) {
	p.status.SetText(fmt.Sprintf(format, args...))
}
