// SPDX-License-Identifier: MIT

package cnmf

import (
	"math"
)

const opContours = "SpatialContours"

// Contour outlines one thresholded spatial footprint.
type Contour struct {
	Component int
	// Coordinates are the (row, col) boundary pixels of the footprint mask,
	// row-major. Empty when no pixel reaches the threshold.
	Coordinates [][2]int
	// Center is the mean (row, col) of Coordinates; NaN for an empty contour.
	Center [2]float64
}

// SpatialContours returns the contour and its center of mass for each of
// comps, thresholded like SpatialMasks. A nil comps uses DefaultComponents.
// Errors: ErrBadComponent.
func (r *Reconstructor) SpatialContours(comps []int, threshold float64) ([]Contour, error) {
	if comps == nil {
		comps = r.est.DefaultComponents()
	}
	masks, err := r.SpatialMasks(comps, threshold)
	if err != nil {
		return nil, cnmfErrorf(opContours, err)
	}

	out := make([]Contour, len(masks))
	for i, m := range masks {
		coords := m.Boundary()
		center := [2]float64{math.NaN(), math.NaN()}
		if len(coords) > 0 {
			var sr, sc float64
			for _, p := range coords {
				sr += float64(p[0])
				sc += float64(p[1])
			}
			n := float64(len(coords))
			center = [2]float64{sr / n, sc / n}
		}
		out[i] = Contour{Component: comps[i], Coordinates: coords, Center: center}
	}

	return out, nil
}
