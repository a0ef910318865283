// SPDX-License-Identifier: MIT
// Package model - calibration of every date.

package model

import (
	"context"

	"go.uber.org/zap"

	"github.com/katalvlaran/chronolath/likelihood"
)

// Calibrate computes the calibration of every date on the study grid.
// A failing date is recorded in CalibrationErr, logged and skipped; it does
// not stop the others. progress, when non-nil, is called after each date.
// Returns the ids of failed dates, or ctx.Err() when cancelled.
func (m *Model) Calibrate(ctx context.Context, progress func(done int)) ([]DateID, error) {
	grid := m.Settings.Grid()
	var failed []DateID
	for i := range m.Dates {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		d := &m.Dates[i]
		d.Calibration, d.CalibrationErr = likelihood.Calibrate(d.Plugin, d.Data, grid)
		if d.CalibrationErr != nil {
			failed = append(failed, d.ID)
			m.logger.Warn("calibration failed",
				zap.String("date", d.Name),
				zap.Error(d.CalibrationErr))
		}
		if progress != nil {
			progress(i + 1)
		}
	}
	return failed, nil
}
