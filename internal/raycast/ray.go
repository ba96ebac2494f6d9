// Package raycast walks the tile grid for every screen column and records the
// surfaces each ray passes through, front to back.
package raycast

import (
	"math"

	"portalcaster/internal/world"
)

// MaxHitsPerRay is the capacity of a ray's hit list. Reaching it ends the
// traversal even in the middle of a translucent or portal chain.
const MaxHitsPerRay = 10

// Hit is one surface struck by a ray.
type Hit struct {
	GridX, GridY     int     // cell that was struck
	HitX, HitY       float64 // point of impact on the grid line
	OriginX, OriginY float64 // where the current segment of the ray started
	// Distance from the segment origin plus everything travelled before the
	// last portal jump.
	Distance float64
	Vertical bool // crossed a vertical grid line
	Content  world.TileCode
}

// Ray holds the hit list of one screen column. Hits beyond Count are stale.
type Ray struct {
	Angle       float64 // normalized to [0, 2π)
	FacingUp    bool
	FacingDown  bool
	FacingLeft  bool
	FacingRight bool
	Count       int
	Hits        [MaxHitsPerRay]Hit
}

// Layers returns the recorded hits, nearest first.
func (r *Ray) Layers() []Hit {
	return r.Hits[:r.Count]
}

// Nearest returns the first hit, if any.
func (r *Ray) Nearest() (Hit, bool) {
	if r.Count == 0 {
		return Hit{}, false
	}
	return r.Hits[0], true
}

// ViewPoint is the position and facing rays are cast from.
type ViewPoint struct {
	X, Y  float64
	Angle float64
}

// ProjectionPlane returns the distance from the eye to the projection plane for
// a screen of the given width and field of view.
func ProjectionPlane(screenWidth int, fov float64) float64 {
	return (float64(screenWidth) / 2) / math.Tan(fov/2)
}

// ColumnAngle returns the ray angle for a screen column. Columns are spaced
// evenly on the projection plane, not in angle.
func ColumnAngle(facing float64, col, numRays int, projPlane float64) float64 {
	return facing + math.Atan(float64(col-numRays/2)/projPlane)
}
