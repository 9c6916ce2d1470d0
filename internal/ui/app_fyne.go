//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"overlayedit/internal/baseimage"
	"overlayedit/internal/config"
	"overlayedit/internal/gesture"
	applog "overlayedit/internal/log"
	"overlayedit/internal/overlay"
	"overlayedit/internal/session"
	"overlayedit/internal/textlayout"
	"overlayedit/internal/vector"
)

// Edit opens the desktop editor over the given image and layout files and
// blocks until the user commits or cancels. A nil result means cancellation.
func Edit(imagePath, layoutPath string) (*session.Result, error) {
	l := applog.WithComponent("ui")
	l.Info("starting editor", slog.String("image", imagePath), slog.String("layout", layoutPath))

	img, err := baseimage.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open base image: %w", err)
	}
	data, err := os.ReadFile(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	layout, err := overlay.ParseLayout(data)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	sess, err := session.OpenWithDepth(img, layout, cfg.Editor.HistoryDepth)
	if err != nil {
		return nil, err
	}

	fyneApp := app.NewWithID("overlayedit")
	w := fyneApp.NewWindow("Overlay Edit")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1000)
	winH := prefs.IntWithFallback("window.height", 700)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	ec := NewEditorCanvas(sess, imagePath)
	ec.OnStatus = func(msg string) { status.SetText(msg) }
	ec.OnEditText = func(id string) { showTextEditDialog(w, sess, ec, id) }

	undoBtn := widget.NewButton("Undo", func() {
		if sess.Undo() {
			ec.Refresh()
		}
	})
	redoBtn := widget.NewButton("Redo", func() {
		if sess.Redo() {
			ec.Refresh()
		}
	})
	deleteBtn := widget.NewButton("Delete", func() {
		if sess.DeleteSelected() {
			ec.Refresh()
		}
	})
	cancelBtn := widget.NewButton("Cancel", func() {
		sess.Cancel()
		w.Close()
	})
	commitBtn := widget.NewButton("Commit", func() {
		sess.Commit()
		w.Close()
	})
	toolbar := container.NewHBox(undoBtn, redoBtn, deleteBtn, widget.NewSeparator(), cancelBtn, commitBtn)

	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		if sess.Undo() {
			ec.Refresh()
		}
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		if sess.Redo() {
			ec.Refresh()
		}
	})
	w.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		if e.Name == fyne.KeyDelete || e.Name == fyne.KeyBackspace {
			if sess.DeleteSelected() {
				ec.Refresh()
			}
		}
	})

	// window close without commit is a cancel
	w.SetCloseIntercept(func() {
		prefs.SetInt("window.width", int(w.Canvas().Size().Width))
		prefs.SetInt("window.height", int(w.Canvas().Size().Height))
		sess.Cancel()
		w.Close()
	})

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, ec))
	w.ShowAndRun()

	return sess.Wait(context.Background())
}

func showTextEditDialog(w fyne.Window, sess *session.Session, ec *EditorCanvas, id string) {
	o, ok := sess.Overlays().Get(id)
	if !ok || !sess.BeginTextEdit(id) {
		return
	}
	entry := widget.NewMultiLineEntry()
	entry.SetText(o.Text)
	dialog.ShowCustomConfirm("Edit text", "Save", "Discard", entry, func(save bool) {
		if save {
			sess.SaveTextEdit(id, entry.Text)
		} else {
			sess.CancelTextEdit()
		}
		ec.Refresh()
	}, w)
}

// EditorCanvas renders the base image with its text overlays and routes
// pointer events into the gesture controller. The widget owns no editing
// state itself; the session does.
type EditorCanvas struct {
	widget.BaseWidget
	sess     *session.Session
	measurer *textlayout.Measurer
	imgPath  string

	OnStatus   func(string)
	OnEditText func(id string)
}

const (
	handleSize float32 = 10
	rotateSize float32 = 12
	rotateGap  float32 = 24
	minHitSide float32 = 24
)

func NewEditorCanvas(sess *session.Session, imgPath string) *EditorCanvas {
	ec := &EditorCanvas{
		sess:     sess,
		measurer: textlayout.NewMeasurer(),
		imgPath:  imgPath,
	}
	ec.ExtendBaseWidget(ec)
	return ec
}

func (ec *EditorCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

// overlayBox computes the on-screen axis-aligned box of an overlay, grown to
// a minimum grab target.
func (ec *EditorCanvas) overlayBox(o overlay.Overlay) (vector.Rect, bool) {
	m := ec.sess.Mapper()
	center, ok := m.CanvasToScreen(o.X, o.Y)
	if !ok {
		return vector.Rect{}, false
	}
	sz := ec.measurer.Box(o, m.Rect())
	if sz.W < minHitSide {
		sz.W = minHitSide
	}
	if sz.H < minHitSide {
		sz.H = minHitSide
	}
	return vector.CenterBox(center, sz.W, sz.H), true
}

// hitTest returns the topmost overlay under p, checking the selected overlay
// first because it paints above all others.
func (ec *EditorCanvas) hitTest(p vector.Pt) string {
	overlays := ec.sess.Overlays()
	if sel := ec.sess.Gestures().SelectedID(); sel != "" {
		if o, ok := overlays.Get(sel); ok {
			if box, ok := ec.overlayBox(*o); ok && box.Contains(p) {
				return sel
			}
		}
	}
	for i := len(overlays) - 1; i >= 0; i-- {
		if box, ok := ec.overlayBox(overlays[i]); ok && box.Contains(p) {
			return overlays[i].ID
		}
	}
	return ""
}

// handleRects returns the selection handle geometry, valid only while an
// overlay is selected and the mapper has a rectangle.
func (ec *EditorCanvas) handleRects() (bbox vector.Rect, corners [4]vector.Rect, rot vector.Rect, ok bool) {
	sel := ec.sess.Gestures().SelectedID()
	if sel == "" {
		return
	}
	o, found := ec.sess.Overlays().Get(sel)
	if !found {
		return
	}
	bbox, ok = ec.overlayBox(*o)
	if !ok {
		return
	}
	h := handleSize
	corners[0] = vector.R(bbox.X-h/2, bbox.Y-h/2, h, h)               // NW
	corners[1] = vector.R(bbox.X+bbox.W-h/2, bbox.Y-h/2, h, h)        // NE
	corners[2] = vector.R(bbox.X-h/2, bbox.Y+bbox.H-h/2, h, h)        // SW
	corners[3] = vector.R(bbox.X+bbox.W-h/2, bbox.Y+bbox.H-h/2, h, h) // SE
	rot = vector.R(bbox.X+bbox.W/2-rotateSize/2, bbox.Y-rotateGap-rotateSize/2, rotateSize, rotateSize)
	return
}

func (ec *EditorCanvas) handleAt(p vector.Pt) gesture.Handle {
	_, corners, rot, ok := ec.handleRects()
	if !ok {
		return gesture.HandleNone
	}
	if rot.Contains(p) {
		return gesture.HandleRotate
	}
	for i, hs := range [...]gesture.Handle{gesture.HandleNW, gesture.HandleNE, gesture.HandleSW, gesture.HandleSE} {
		if corners[i].Contains(p) {
			return hs
		}
	}
	return gesture.HandleNone
}

func (ec *EditorCanvas) Tapped(e *fyne.PointEvent) {
	p := vector.Pt{X: e.Position.X, Y: e.Position.Y}
	id := ec.hitTest(p)
	g := ec.sess.Gestures()
	if id == "" {
		g.Select("")
	} else {
		g.PointerDown(id, p)
		g.PointerUp()
	}
	if ec.OnStatus != nil {
		if id == "" {
			ec.OnStatus("Ready")
		} else {
			ec.OnStatus("Selected " + id)
		}
	}
	ec.Refresh()
}

func (ec *EditorCanvas) DoubleTapped(e *fyne.PointEvent) {
	p := vector.Pt{X: e.Position.X, Y: e.Position.Y}
	if id := ec.hitTest(p); id != "" && ec.OnEditText != nil {
		ec.OnEditText(id)
	}
}

func (ec *EditorCanvas) Dragged(e *fyne.DragEvent) {
	g := ec.sess.Gestures()
	p := vector.Pt{X: e.Position.X, Y: e.Position.Y}
	if g.Mode() == gesture.ModeIdle {
		// drag origin decides the gesture kind
		origin := vector.Pt{X: e.Position.X - e.Dragged.DX, Y: e.Position.Y - e.Dragged.DY}
		if h := ec.handleAt(origin); h != gesture.HandleNone {
			g.HandleDown(h, origin)
		} else if id := ec.hitTest(origin); id != "" {
			g.PointerDown(id, origin)
		}
	}
	g.PointerMove(p)
	ec.Refresh()
}

func (ec *EditorCanvas) DragEnd() {
	ec.sess.Gestures().PointerUp()
	ec.Refresh()
}

// Hoverable: a pointer leaving the widget while pressed terminates the
// active gesture the same way a release does.
func (ec *EditorCanvas) MouseIn(*desktop.MouseEvent)    {}
func (ec *EditorCanvas) MouseMoved(*desktop.MouseEvent) {}
func (ec *EditorCanvas) MouseOut() {
	g := ec.sess.Gestures()
	if g.Mode() != gesture.ModeIdle {
		g.PointerLeave()
		ec.Refresh()
	}
}

func (ec *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	img := canvas.NewImageFromFile(ec.imgPath)
	img.FillMode = canvas.ImageFillStretch

	bbox := canvas.NewRectangle(color.RGBA{})
	bbox.StrokeColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	bbox.StrokeWidth = 1
	bbox.Hide()

	var handles [4]*canvas.Rectangle
	for i := range handles {
		handles[i] = canvas.NewRectangle(color.RGBA{R: 0, G: 170, B: 255, A: 255})
		handles[i].Hide()
	}
	rot := canvas.NewCircle(color.RGBA{R: 255, G: 170, B: 0, A: 255})
	rot.Hide()

	objs := []fyne.CanvasObject{bg, img, bbox, handles[0], handles[1], handles[2], handles[3], rot}
	return &editorCanvasRenderer{ec: ec, objects: objs, bg: bg, img: img, bbox: bbox, handles: handles, rot: rot}
}

type editorCanvasRenderer struct {
	ec      *EditorCanvas
	objects []fyne.CanvasObject
	bg      *canvas.Rectangle
	img     *canvas.Image
	texts   []*canvas.Text
	bbox    *canvas.Rectangle
	handles [4]*canvas.Rectangle
	rot     *canvas.Circle
}

func (r *editorCanvasRenderer) Destroy()                     {}
func (r *editorCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *editorCanvasRenderer) MinSize() fyne.Size           { return r.ec.PreferredSize() }
func (r *editorCanvasRenderer) Refresh()                     { r.Layout(r.ec.Size()); canvas.Refresh(r.ec) }

func (r *editorCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	r.ec.sess.Resize(size.Width, size.Height)
	rect := r.ec.sess.Mapper().Rect()
	r.img.Resize(fyne.NewSize(rect.W, rect.H))
	r.img.Move(fyne.NewPos(rect.X, rect.Y))

	overlays := r.ec.sess.Overlays()

	// one text visual per overlay, grown on demand like the scene rects
	for len(r.texts) < len(overlays) {
		t := canvas.NewText("", color.White)
		r.texts = append(r.texts, t)
		// keep selection visuals on top: insert before bbox
		objs := make([]fyne.CanvasObject, 0, len(r.objects)+1)
		objs = append(objs, r.objects[:2+len(r.texts)-1]...)
		objs = append(objs, t)
		objs = append(objs, r.objects[2+len(r.texts)-1:]...)
		r.objects = objs
	}
	for i, t := range r.texts {
		if i >= len(overlays) {
			t.Hide()
			continue
		}
		o := overlays[i]
		t.Text = o.Text
		// font sizes are authored against the image's native pixel height
		ratio := float32(1)
		if ih := r.ec.sess.Image().Height; ih > 0 {
			ratio = rect.H / float32(ih)
		}
		t.TextSize = float32(o.Style.FontSize*o.Scale) * ratio
		if t.TextSize < 8 {
			t.TextSize = 8
		}
		t.Color = parseHexColor(o.Style.Color)
		t.Refresh()
		center, ok := r.ec.sess.Mapper().CanvasToScreen(o.X, o.Y)
		if !ok {
			t.Hide()
			continue
		}
		ts := t.MinSize()
		t.Move(fyne.NewPos(center.X-ts.Width/2, center.Y-ts.Height/2))
		t.Show()
	}

	// the selected overlay paints above all others regardless of array order
	if sel := r.ec.sess.Gestures().SelectedID(); sel != "" {
		if idx := r.ec.sess.Overlays().Index(sel); idx >= 0 && idx < len(r.texts) {
			r.raiseText(r.texts[idx])
		}
	}

	bbox, corners, rotRect, ok := r.ec.handleRects()
	if !ok {
		r.bbox.Hide()
		for _, h := range r.handles {
			h.Hide()
		}
		r.rot.Hide()
		return
	}
	place := func(obj fyne.CanvasObject, rc vector.Rect) {
		obj.Resize(fyne.NewSize(rc.W, rc.H))
		obj.Move(fyne.NewPos(rc.X, rc.Y))
		obj.Show()
	}
	place(r.bbox, bbox)
	for i, h := range r.handles {
		place(h, corners[i])
	}
	place(r.rot, rotRect)
}

// raiseText moves t directly below the selection visuals in draw order.
func (r *editorCanvasRenderer) raiseText(t *canvas.Text) {
	pos := -1
	bboxAt := -1
	for i, obj := range r.objects {
		if obj == t {
			pos = i
		}
		if obj == r.bbox {
			bboxAt = i
		}
	}
	if pos < 0 || bboxAt < 0 || pos == bboxAt-1 {
		return
	}
	objs := make([]fyne.CanvasObject, 0, len(r.objects))
	for i, obj := range r.objects {
		if i == pos {
			continue
		}
		if obj == r.bbox {
			objs = append(objs, t)
		}
		objs = append(objs, obj)
	}
	r.objects = objs
}

// parseHexColor decodes #rgb or #rrggbb, defaulting to white.
func parseHexColor(s string) color.Color {
	if len(s) == 4 && s[0] == '#' {
		s = "#" + string(s[1]) + string(s[1]) + string(s[2]) + string(s[2]) + string(s[3]) + string(s[3])
	}
	if len(s) != 7 || s[0] != '#' {
		return color.White
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.White
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
