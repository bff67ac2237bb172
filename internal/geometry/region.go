package geometry

// Point is a screen coordinate reported by the code scanner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Region is an on-screen capture area.
type Region interface {
	Contains(p Point) bool
}

// Rect is an axis-aligned capture rectangle. Containment is a closed interval
// on both axes with no margin.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Contains reports whether p lies inside or on the border of r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

// Ellipse is the oval used to frame faces.
type Ellipse struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	RadiusX float64 `json:"radius_x"`
	RadiusY float64 `json:"radius_y"`
}

// Contains reports whether p lies inside or on the ellipse.
func (e Ellipse) Contains(p Point) bool {
	if e.RadiusX <= 0 || e.RadiusY <= 0 {
		return false
	}
	dx := (p.X - e.CenterX) / e.RadiusX
	dy := (p.Y - e.CenterY) / e.RadiusY
	return dx*dx+dy*dy <= 1
}

const (
	qrSideRatio      = 0.7
	faceCenterYRatio = 0.4
	faceRadiusXRatio = 0.35
	faceRadiusYRatio = 0.275
)

// QRRegion returns the square QR capture box centred in a viewport. The side
// is 70% of the smaller viewport dimension.
func QRRegion(viewportW, viewportH float64) Rect {
	side := viewportW
	if viewportH < side {
		side = viewportH
	}
	side *= qrSideRatio
	radius := side / 2
	return Rect{
		Left:   viewportW/2 - radius,
		Top:    viewportH/2 - radius,
		Width:  side,
		Height: side,
	}
}

// FaceRegion returns the face oval for a viewport, centred horizontally and
// slightly above the vertical middle.
func FaceRegion(viewportW, viewportH float64) Ellipse {
	return Ellipse{
		CenterX: viewportW / 2,
		CenterY: viewportH * faceCenterYRatio,
		RadiusX: viewportW * faceRadiusXRatio,
		RadiusY: viewportH * faceRadiusYRatio,
	}
}
