// Package viewport maps between screen pixels and document coordinates.
//
// Convention: screen = (doc + pan) * zoom, so pan is expressed in document
// units and scaling happens about the top-left corner of the canvas surface.
package viewport

import (
	"math"

	"canvas/internal/domain"
)

const (
	DefaultMinZoom  = 1.0
	DefaultMaxZoom  = 3.0
	DefaultZoomStep = 0.1
)

// Options configures zoom limits and wheel behaviour.
type Options struct {
	MinZoom  float64
	MaxZoom  float64
	ZoomStep float64 // each wheel tick multiplies or divides zoom by 1+ZoomStep

	// WheelZoomRequiresModifier gates wheel zoom behind Ctrl/Meta. Without
	// the modifier the wheel scrolls the view.
	WheelZoomRequiresModifier bool
}

func (o Options) withDefaults() Options {
	if o.MinZoom <= 0 {
		o.MinZoom = DefaultMinZoom
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = DefaultMaxZoom
	}
	if o.MaxZoom < o.MinZoom {
		o.MinZoom, o.MaxZoom = o.MaxZoom, o.MinZoom
	}
	if o.ZoomStep <= 0 {
		o.ZoomStep = DefaultZoomStep
	}
	return o
}

// Viewport owns the pan offset and zoom factor of one editor.
type Viewport struct {
	pan  domain.Point
	zoom float64
	opts Options
}

func New(opts Options) *Viewport {
	opts = opts.withDefaults()
	return &Viewport{zoom: clamp(1, opts.MinZoom, opts.MaxZoom), opts: opts}
}

func (v *Viewport) Pan() domain.Point { return v.pan }
func (v *Viewport) Zoom() float64     { return v.zoom }
func (v *Viewport) Options() Options  { return v.opts }

// SetOptions swaps the limits and re-clamps the current zoom. The point at
// the surface origin stays fixed if the zoom has to move.
func (v *Viewport) SetOptions(opts Options) {
	v.opts = opts.withDefaults()
	v.zoomTo(clamp(v.zoom, v.opts.MinZoom, v.opts.MaxZoom), domain.Point{})
}

func (v *Viewport) State() domain.ViewportState {
	return domain.ViewportState{PanX: v.pan.X, PanY: v.pan.Y, Zoom: v.zoom}
}

// SetState restores a saved viewport. The zoom is clamped to the limits.
func (v *Viewport) SetState(s domain.ViewportState) {
	v.pan = domain.Point{X: s.PanX, Y: s.PanY}
	z := s.Zoom
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		z = 1
	}
	v.zoom = clamp(z, v.opts.MinZoom, v.opts.MaxZoom)
}

func (v *Viewport) Reset() {
	v.pan = domain.Point{}
	v.zoom = clamp(1, v.opts.MinZoom, v.opts.MaxZoom)
}

// PanBy moves the view by a screen-space delta. Pan is unbounded.
func (v *Viewport) PanBy(dxScreen, dyScreen float64) {
	v.pan.X += dxScreen / v.zoom
	v.pan.Y += dyScreen / v.zoom
}

// ZoomBy multiplies the zoom by factor, clamped to the limits, keeping the
// document point under pivot (screen space) fixed. It reports whether the
// zoom changed.
func (v *Viewport) ZoomBy(factor float64, pivot domain.Point) bool {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return false
	}
	return v.zoomTo(clamp(v.zoom*factor, v.opts.MinZoom, v.opts.MaxZoom), pivot)
}

// SetZoom sets an absolute zoom level about pivot.
func (v *Viewport) SetZoom(z float64, pivot domain.Point) bool {
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return false
	}
	return v.zoomTo(clamp(z, v.opts.MinZoom, v.opts.MaxZoom), pivot)
}

func (v *Viewport) ZoomIn(pivot domain.Point) bool {
	return v.ZoomBy(1+v.opts.ZoomStep, pivot)
}

func (v *Viewport) ZoomOut(pivot domain.Point) bool {
	return v.ZoomBy(1/(1+v.opts.ZoomStep), pivot)
}

// Wheel applies one wheel event. With zoom enabled (modifier held, or not
// required) a negative deltaY zooms in and a positive one zooms out;
// otherwise the wheel scrolls the view.
func (v *Viewport) Wheel(delta domain.Point, modifier bool, pivot domain.Point) bool {
	if modifier || !v.opts.WheelZoomRequiresModifier {
		switch {
		case delta.Y < 0:
			return v.ZoomIn(pivot)
		case delta.Y > 0:
			return v.ZoomOut(pivot)
		}
		return false
	}
	if delta.X == 0 && delta.Y == 0 {
		return false
	}
	v.PanBy(-delta.X, -delta.Y)
	return true
}

func (v *Viewport) zoomTo(z float64, pivot domain.Point) bool {
	if z == v.zoom {
		return false
	}
	cursorDoc := pivot.Sub(v.pan.Scale(v.zoom)).Scale(1 / v.zoom)
	v.zoom = z
	v.pan = pivot.Scale(1 / z).Sub(cursorDoc)
	return true
}

func (v *Viewport) ScreenToDocument(p domain.Point) domain.Point {
	return p.Scale(1 / v.zoom).Sub(v.pan)
}

func (v *Viewport) DocumentToScreen(p domain.Point) domain.Point {
	return p.Add(v.pan).Scale(v.zoom)
}

// ScreenDeltaToDocument converts a screen-space distance into document units.
func (v *Viewport) ScreenDeltaToDocument(d domain.Point) domain.Point {
	return d.Scale(1 / v.zoom)
}

// CenterOn pans so that r sits in the middle of a surface of the given
// screen size. Zoom is unchanged.
func (v *Viewport) CenterOn(r domain.Rect, surfaceW, surfaceH float64) {
	c := r.Center()
	v.pan = domain.Point{
		X: surfaceW/2/v.zoom - c.X,
		Y: surfaceH/2/v.zoom - c.Y,
	}
}

// VisibleRect is the document-space area covered by a surface of the given
// screen size.
func (v *Viewport) VisibleRect(surfaceW, surfaceH float64) domain.Rect {
	tl := v.ScreenToDocument(domain.Point{})
	return domain.Rect{X: tl.X, Y: tl.Y, Width: surfaceW / v.zoom, Height: surfaceH / v.zoom}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
