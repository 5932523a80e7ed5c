// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// rvlabd exports the RVLab clock block over gRPC and Prometheus.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rvlab/rvlab-go/config"
	"github.com/rvlab/rvlab-go/pkg/bootcheck"
	"github.com/rvlab/rvlab-go/pkg/logger"
	"github.com/rvlab/rvlab-go/pkg/metric"
	"github.com/rvlab/rvlab-go/pkg/platform"
	"github.com/rvlab/rvlab-go/pkg/service/grpc"
	"golang.org/x/sync/errgroup"
)

var (
	grpcAddr    = flag.String("grpc", config.DefaultConfig.GrpcAddress, "Listen address of the clock service")
	metricsAddr = flag.String("metrics", config.DefaultConfig.MetricsAddress, "Listen address of the metrics endpoint, empty to disable")
	debug       = flag.Bool("debug", config.DefaultConfig.Log.Debug, "Log register sequences")
	logFile     = flag.String("log_file", config.DefaultConfig.Log.File, "Also write JSON logs to this file")
	ignoreFault = flag.Bool("ignore_fault", false, "Serve even after a safety reset")

	lc  = &logger.LogContainer
	log = lc.GetLogger()
)

func main() {
	flag.Parse()
	logger.SetDebug(*debug)
	if err := logger.SetLogFile(*logFile); err != nil {
		log.Fatal("Failed to open log file", lc.String("err", err.Error()))
	}
	if err := run(); err != nil {
		log.Error("rvlabd failed", lc.String("err", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.DefaultConfig
	p, err := platform.Open(cfg.Clock)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Error("Failed to close clock block", lc.String("err", err.Error()))
		}
	}()

	boot, err := bootcheck.Check(p.Clk, os.Stderr, bootcheck.Options{})
	if err != nil {
		if !errors.Is(err, bootcheck.ErrSafetyReset) || !*ignoreFault {
			return err
		}
		log.Warn("Continuing after safety reset",
			lc.String("code", boot.String()), lc.Int("status", int(boot.Code())))
	}

	gl, err := grpc.Listen(*grpcAddr)
	if err != nil {
		return err
	}
	var ml net.Listener
	if *metricsAddr != "" {
		if ml, err = metric.Listen(*metricsAddr); err != nil {
			gl.Close()
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	s := grpc.NewServer(p.Clk, cfg.Clock, boot, &cfg.Version)
	g.Go(func() error {
		log.Info("Clock service listening",
			lc.String("address", gl.Addr().String()), lc.String("registers", registers(p)))
		return s.Serve(gl)
	})
	g.Go(func() error {
		<-ctx.Done()
		s.GracefulStop()
		return nil
	})

	if ml != nil {
		g.Go(func() error {
			log.Info("Metrics listening", lc.String("address", ml.Addr().String()))
			return metric.Serve(ml)
		})
		g.Go(func() error {
			<-ctx.Done()
			return ml.Close()
		})
	}

	return g.Wait()
}

func registers(p *platform.Platform) string {
	if p.Simulated() {
		return "simulated"
	}
	return "/dev/mem"
}
