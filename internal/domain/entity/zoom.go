package entity

import (
	"math"
	"time"
)

// ZoomLevel represents the zoom factor for a specific host.
// Allows users to set persistent zoom levels per-site.
type ZoomLevel struct {
	Domain     string  // Host name (e.g., "github.com")
	ZoomFactor float64 // Zoom factor (1.0 = 100%, 1.5 = 150%)
	UpdatedAt  time.Time
}

// Default zoom constants
const (
	ZoomDefault = 1.0
	ZoomMin     = 0.25 // 25%
	ZoomMax     = 5.0  // 500%
)

// zoomLadder holds the discrete steps walked by ZoomIn/ZoomOut.
var zoomLadder = []float64{
	0.25, 0.33, 0.5, 0.67, 0.75, 0.8, 0.9, 1.0,
	1.1, 1.25, 1.5, 1.75, 2.0, 2.5, 3.0, 4.0, 5.0,
}

// NewZoomLevel creates a new zoom level for a host.
func NewZoomLevel(domain string, factor float64) *ZoomLevel {
	return &ZoomLevel{
		Domain:     domain,
		ZoomFactor: clampZoom(factor),
		UpdatedAt:  time.Now(),
	}
}

// SetFactor updates the zoom factor, clamping to valid range.
func (z *ZoomLevel) SetFactor(factor float64) {
	z.ZoomFactor = clampZoom(factor)
	z.UpdatedAt = time.Now()
}

// ZoomIn moves to the next ladder step above the current factor.
func (z *ZoomLevel) ZoomIn() {
	for _, step := range zoomLadder {
		if step > z.ZoomFactor+1e-9 {
			z.SetFactor(step)
			return
		}
	}
	z.SetFactor(ZoomMax)
}

// ZoomOut moves to the next ladder step below the current factor.
func (z *ZoomLevel) ZoomOut() {
	for i := len(zoomLadder) - 1; i >= 0; i-- {
		if zoomLadder[i] < z.ZoomFactor-1e-9 {
			z.SetFactor(zoomLadder[i])
			return
		}
	}
	z.SetFactor(ZoomMin)
}

// Reset restores the zoom factor to default.
func (z *ZoomLevel) Reset() {
	z.SetFactor(ZoomDefault)
}

// IsDefault returns true if the zoom is at default level.
func (z *ZoomLevel) IsDefault() bool {
	return math.Abs(z.ZoomFactor-ZoomDefault) < 1e-9
}

// Percentage returns the zoom factor as a percentage (e.g., 150 for 1.5).
func (z *ZoomLevel) Percentage() int {
	return int(math.Round(z.ZoomFactor * 100))
}

// clampZoom constrains a zoom factor to the valid range.
func clampZoom(factor float64) float64 {
	if factor < ZoomMin {
		return ZoomMin
	}
	if factor > ZoomMax {
		return ZoomMax
	}
	return factor
}
