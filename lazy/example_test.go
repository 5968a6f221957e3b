// SPDX-License-Identifier: MIT

package lazy_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cnmfrecon/lazy"
	"github.com/katalvlaran/cnmfrecon/ndarray"
	"github.com/katalvlaran/cnmfrecon/sparse"
)

// ExampleNewRCM reconstructs one frame of a 2×2 movie with a single component.
func ExampleNewRCM() {
	// Footprint over pixels p = r + 2c: (0,0)=1 (1,0)=2 (0,1)=3 (1,1)=4.
	a, _ := sparse.NewCSC(4, 1, []int{0, 4}, []int{0, 1, 2, 3}, []float64{1, 2, 3, 4}, ndarray.Float64)
	c := mat.NewDense(1, 3, []float64{1, 2, 3})

	rcm, err := lazy.NewRCM(a, c, [2]int{2, 2})
	if err != nil {
		fmt.Println(err)
		return
	}
	frame, _ := rcm.Read(ndarray.Index(1))
	fmt.Println(frame.Shape(), frame.Data())
	fmt.Println(rcm.Min(), rcm.Max())
	fmt.Println(rcm.MeanImage().Data())

	// Output:
	// [2 2] [2 6 4 8]
	// 1 12
	// [2 6 4 8]
}
