// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/katalvlaran/chronolath/progress"
)

func TestPrintProgress(t *testing.T) {
	ch := make(chan progress.Event, 8)
	ch <- progress.Event{Kind: progress.KindStep, Label: "Burn-in chain 1/1", Max: 4}
	ch <- progress.Event{Kind: progress.KindProgress, Value: 2}
	ch <- progress.Event{Kind: progress.KindProgress, Value: 2}
	ch <- progress.Event{Kind: progress.KindProgress, Value: 4}
	close(ch)

	var buf bytes.Buffer
	printProgress(&buf, ch)
	assert.Equal(t, "Burn-in chain 1/1\rBurn-in chain 1/1  50%\rBurn-in chain 1/1 100%\n", buf.String())
}

const tinyStudy = `
settings: {tmin: -500, tmax: 500, step: 1}
mcmc: {chains: 1, seed: 3, burn: 20, batch_size: 10, max_batches: 2, run: 40, thinning: 2}
phases: [{name: P}]
events:
  - {name: e1, phases: [P], dates: [{name: d1, plugin: gauss, data: {measure: -40, error: 20}}]}
  - {name: e2, phases: [P], dates: [{name: d2, plugin: gauss, data: {measure: 60, error: 20}}]}
`

// TestRunAndSummary drives both commands end to end against a temporary
// archive.
func TestRunAndSummary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "study.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tinyStudy), 0o644))
	logger = zap.NewNop()
	dbPath = filepath.Join(dir, "runs.db")

	var out bytes.Buffer
	runCmd.SetOut(&out)
	runCmd.SetErr(&bytes.Buffer{})
	runCmd.SetContext(context.Background())
	require.NoError(t, runStudy(runCmd, []string{path}))
	assert.Contains(t, out.String(), "status: finished")
	assert.Contains(t, out.String(), "run: ")

	out.Reset()
	summaryCmd.SetOut(&out)
	summaryCmd.SetContext(context.Background())
	require.NoError(t, showSummary(summaryCmd, nil))
	assert.Contains(t, out.String(), "finished")
}
