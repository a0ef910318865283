// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/chronolath/config"
	"github.com/katalvlaran/chronolath/likelihood"
	"github.com/katalvlaran/chronolath/mcmc"
	"github.com/katalvlaran/chronolath/model"
	"github.com/katalvlaran/chronolath/progress"
	"github.com/katalvlaran/chronolath/store"
)

var (
	metricsAddr   string
	progressEvery int
	noStore       bool
)

var runCmd = &cobra.Command{
	Use:   "run <study.yaml>",
	Short: "Run the MCMC engine on a study file",
	Args:  cobra.ExactArgs(1),
	RunE:  runStudy,
}

func init() {
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running (e.g. :9090)")
	runCmd.Flags().IntVar(&progressEvery, "progress-every", 1000, "Log progress every n iterations at debug level")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "Do not archive the run")
}

func runStudy(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	study, err := config.Parse(raw)
	if err != nil {
		return err
	}
	m, chains, err := study.Build(likelihood.DefaultRegistry(), model.WithLogger(logger))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := progress.NewMetrics(reg)
	if err != nil {
		return err
	}
	ch := progress.NewChannel(256)
	ctrl := mcmc.New(m, chains,
		mcmc.WithLogger(logger),
		mcmc.WithAnalysis(study.AnalysisOptions()),
		mcmc.WithObserver(progress.Fanout(ch, metrics, progress.NewLogger(logger, progressEvery))))

	var (
		rep  mcmc.Report
		done = make(chan struct{})
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		defer ch.Close()
		var err error
		rep, err = ctrl.Run(gctx)
		return err
	})
	g.Go(func() error {
		printProgress(cmd.ErrOrStderr(), ch.C())
		return nil
	})
	if metricsAddr != "" {
		g.Go(func() error { return serveMetrics(gctx, done, metricsAddr, reg) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if d := ch.Dropped(); d > 0 {
		logger.Debug("progress events dropped", zap.Int64("count", d))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status: %s\n", rep.Status)
	for _, sub := range rep.Substitutions {
		fmt.Fprintf(out, "date %q: %s replaced by %s\n", m.Dates[sub.Date].Name, sub.From.Label(), sub.To.Label())
	}
	if rep.Status == mcmc.StatusFinished {
		printResults(out, m)
	}

	if noStore {
		return nil
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	// the signal context may be done already; archiving an aborted run still
	// has to go through
	id, err := s.SaveRun(context.WithoutCancel(ctx), m, rep, study.MCMC.Seed, raw)
	if err != nil {
		return err
	}
	logger.Info("run archived", zap.String("run", id), zap.String("db", dbPath))
	fmt.Fprintf(out, "run: %s\n", id)
	return nil
}

// printProgress renders step labels and a percentage until ch is closed.
func printProgress(w io.Writer, ch <-chan progress.Event) {
	var (
		label   string
		total   int
		percent = -1
	)
	for e := range ch {
		switch e.Kind {
		case progress.KindStep:
			if label != "" {
				fmt.Fprintln(w)
			}
			label, total, percent = e.Label, e.Max, -1
			fmt.Fprintf(w, "%s", label)
		case progress.KindProgress:
			if total <= 0 {
				continue
			}
			if p := 100 * e.Value / total; p != percent {
				percent = p
				fmt.Fprintf(w, "\r%s %3d%%", label, p)
			}
		}
	}
	if label != "" {
		fmt.Fprintln(w)
	}
}

// serveMetrics exposes /metrics until the run is done or ctx ends.
func serveMetrics(ctx context.Context, done <-chan struct{}, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("serving metrics", zap.String("addr", addr))

	select {
	case err := <-errc:
		return fmt.Errorf("metrics server: %w", err)
	case <-done:
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func printResults(w io.Writer, m *model.Model) {
	for i := range m.Events {
		e := &m.Events[i]
		fmt.Fprintf(w, "%s (accept %.1f%%)\n", model.ResultLine(e.Name, &e.Theta.Variable), e.Theta.GlobalRate)
	}
	for i := range m.Phases {
		p := &m.Phases[i]
		fmt.Fprintln(w, model.ResultLine(p.Name+" begin", &p.Alpha))
		fmt.Fprintln(w, model.ResultLine(p.Name+" end", &p.Beta))
		fmt.Fprintln(w, model.ResultLine(p.Name+" duration", &p.Duration))
		fmt.Fprintf(w, "%s time range: [%.2f, %.2f]\n", p.Name, p.TimeRange.Lo, p.TimeRange.Hi)
	}
	for i := range m.Constraints {
		c := &m.Constraints[i]
		from, to := m.Phases[c.From].Name, m.Phases[c.To].Name
		if c.Gap.IsEmpty() {
			fmt.Fprintf(w, "%s → %s gap: none\n", from, to)
			continue
		}
		fmt.Fprintf(w, "%s → %s gap: [%.2f, %.2f]\n", from, to, c.Gap.Lo, c.Gap.Hi)
	}
}
