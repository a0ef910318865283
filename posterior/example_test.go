// SPDX-License-Identifier: MIT

package posterior_test

import (
	"fmt"

	"github.com/katalvlaran/chronolath/posterior"
)

// ExampleCredibilityInterval shows the shortest 80% window of a small trace.
func ExampleCredibilityInterval() {
	trace := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 40}
	c := posterior.CredibilityInterval(trace, 80)
	fmt.Printf("[%g, %g] covers %g%%\n", c.Lo, c.Hi, c.Exact)
	// Output: [10, 17] covers 80%
}

// ExampleQuantile compares two conventions on the same sample.
func ExampleQuantile() {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	q7, _ := posterior.Quantile(x, 0.25, posterior.QuantileType7)
	q6, _ := posterior.Quantile(x, 0.25, posterior.QuantileType6)
	fmt.Println(q7, q6)
	// Output: 3.25 2.75
}
