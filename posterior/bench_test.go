// SPDX-License-Identifier: MIT

package posterior_test

import (
	"testing"

	"github.com/katalvlaran/chronolath/posterior"
)

func BenchmarkDensity_10k(b *testing.B) {
	trace := normalTrace(1, 10000, 0, 1)
	opts := posterior.DefaultDensityOptions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := posterior.Density(trace, opts); err != nil {
			b.Fatalf("Density failed: %v", err)
		}
	}
}

func BenchmarkTimeRange_2k(b *testing.B) {
	begin := normalTrace(2, 2000, 0, 10)
	end := normalTrace(3, 2000, 100, 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = posterior.TimeRange(begin, end, 95)
	}
}
