/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package main

import (
	"context"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nabbar/golib/config"
	"github.com/nabbar/golib/engine"
	"github.com/nabbar/golib/logger"
	"github.com/nabbar/golib/logger/level"
	"github.com/nabbar/golib/metrics"
	"github.com/nabbar/golib/supervisor"
)

type perSourceMetric struct {
	root     string
	counters engine.Counters
}

func (p perSourceMetric) Name() string             { return p.root }
func (p perSourceMetric) Counters() engine.Counters { return p.counters }

func newRunCommand() *cobra.Command {
	var (
		configPath  string
		presetsPath string
		logPath     string
		logLevel    string
		metricsAddr string
		numWorkers  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the backup-watcher daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd, runOptions{
				configPath:  configPath,
				presetsPath: presetsPath,
				logPath:     logPath,
				logLevel:    logLevel,
				metricsAddr: metricsAddr,
				numWorkers:  numWorkers,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.json", "path to the source configuration file")
	cmd.Flags().StringVar(&presetsPath, "presets", "presets.json", "path to the strategy presets file")
	cmd.Flags().StringVar(&logPath, "log-file", "", "optional log file path (overrides config.json's logging.directory)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: critical, fatal, error, warning, info, debug")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090 (empty disables)")
	cmd.Flags().IntVar(&numWorkers, "workers", 2, "number of backup workers per source")

	return cmd
}

type runOptions struct {
	configPath  string
	presetsPath string
	logPath     string
	logLevel    string
	metricsAddr string
	numWorkers  int
}

// logDaemonOptions merges the "logging" block from config.json with the
// run command's CLI flags: an explicitly-passed flag always wins, since
// the operator typed it on this invocation; otherwise the config file's
// value applies.
func logDaemonOptions(cmd *cobra.Command, opt runOptions, lc config.LoggingConfig) logger.Options {
	lvl := opt.logLevel
	if !cmd.Flags().Changed("log-level") && lc.Level != "" {
		lvl = lc.Level
	}

	logPath := opt.logPath
	if !cmd.Flags().Changed("log-file") && lc.Directory != "" {
		logPath = filepath.Join(lc.Directory, "backupwatchd.log")
	}

	return logger.Options{
		Level:          level.Parse(lvl),
		DisableConsole: !lc.Console,
		File:           logger.FileOptions{Filepath: logPath, CreatePath: true},
	}
}

func runDaemon(cmd *cobra.Command, opt runOptions) error {
	bootLg, err := logger.New(logger.Options{Level: level.Parse(opt.logLevel)})
	if err != nil {
		return err
	}

	cfg, err := config.Load(opt.configPath, opt.presetsPath)
	if err != nil {
		bootLg.Error("failed to load configuration", logrus.Fields{"error": err})
		_ = bootLg.Close()
		return err
	}
	_ = bootLg.Close()

	lg, err := logger.New(logDaemonOptions(cmd, opt, cfg.Logging))
	if err != nil {
		return err
	}
	defer func() { _ = lg.Close() }()

	specs, err := cfg.ToSourceSpecs()
	if err != nil {
		lg.Error("no usable source to watch", logrus.Fields{"error": err})
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sup := supervisor.New(specs)

	if err = sup.Start(ctx, opt.numWorkers); err != nil {
		lg.Warn("one or more sources failed to start", logrus.Fields{"error": err})
	}
	defer func() { _ = sup.Stop(context.Background()) }()

	lg.Info("backupwatchd started", logrus.Fields{"sources": sup.SourceCount()})

	var srv *http.Server
	if opt.metricsAddr != "" {
		rec := metrics.New()
		mux := http.NewServeMux()
		mux.Handle("/metrics", rec.Handler())
		srv = &http.Server{Addr: opt.metricsAddr, Handler: mux}

		go collectMetricsLoop(ctx, sup, rec)
		go func() { _ = srv.ListenAndServe() }()
	}

	<-ctx.Done()

	lg.Info("shutting down", logrus.Fields{})

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}

	return nil
}

func collectMetricsLoop(ctx context.Context, sup supervisor.Supervisor, rec metrics.Recorder) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			counters := sup.PerSourceCounters()
			sources := make([]metrics.Source, 0, len(counters))
			for root, c := range counters {
				sources = append(sources, perSourceMetric{root: root, counters: c})
			}
			rec.Collect(sources)
		}
	}
}
