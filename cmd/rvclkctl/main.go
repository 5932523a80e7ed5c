// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// rvclkctl talks to the clock service of rvlabd.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rvlab/rvlab-go/pkg/logger"
	"github.com/rvlab/rvlab-go/pkg/monitor"
	"github.com/rvlab/rvlab-go/pkg/rvclk"
	"github.com/rvlab/rvlab-go/pkg/service/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	host    = flag.String("host", "localhost:8370", "Which rvlabd to connect to")
	timeout = flag.Duration("timeout", 10*time.Second, "Connect and call timeout")

	log = logger.LogContainer.GetSimpleLogger()
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] command [args]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "commands:\n")
	fmt.Fprintf(os.Stderr, "  get             show the sys_clk divider\n")
	fmt.Fprintf(os.Stderr, "  set DIV         change the sys_clk divider\n")
	fmt.Fprintf(os.Stderr, "  clk-get N       show the divider of clock N (1-6)\n")
	fmt.Fprintf(os.Stderr, "  clk-set N DIV   change the divider of clock N (1-6)\n")
	fmt.Fprintf(os.Stderr, "  status          show the safety status read at startup\n")
	fmt.Fprintf(os.Stderr, "  version         show the rvlabd version\n\n")
	flag.PrintDefaults()
}

func number(s string) uint32 {
	v, ok := monitor.ParseNumber(s)
	if !ok {
		log.Fatalf("Failed to parse %q", s)
	}
	return v
}

func domain(s string) int32 {
	d, err := rvclk.ParseDomain(s)
	if err != nil {
		log.Fatal(err)
	}
	return int32(d)
}

func printDivider(r *grpc.DividerResponse) {
	fmt.Printf("%s divider value: %d (%d Hz)\n", r.Name, r.Divider, r.FrequencyHz)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	c, err := grpc.Dial(ctx, *host)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer c.Close()

	need := func(n int) {
		if len(args)-1 != n {
			usage()
			os.Exit(2)
		}
	}

	switch args[0] {
	case "get":
		need(0)
		r, err := c.GetSysclock(ctx)
		if err != nil {
			log.Fatalf("GetSysclock: %v", err)
		}
		printDivider(r)
	case "set":
		need(1)
		div := number(args[1])
		if err := c.SetSysclock(ctx, div); err != nil {
			if status.Code(err) == codes.FailedPrecondition {
				log.Fatalf("SetSysclock: %v (the divider is written but unconfirmed, expect a safety reset)", status.Convert(err).Message())
			}
			log.Fatalf("SetSysclock: %v", err)
		}
		fmt.Printf("updated system clock divisor to %d.\n", div)
	case "clk-get":
		need(1)
		r, err := c.GetDivider(ctx, domain(args[1]))
		if err != nil {
			log.Fatalf("GetDivider: %v", err)
		}
		printDivider(r)
	case "clk-set":
		need(2)
		d, div := domain(args[1]), number(args[2])
		if err := c.SetDivider(ctx, d, div); err != nil {
			log.Fatalf("SetDivider: %v", err)
		}
		fmt.Printf("updated %s divisor to %d.\n", rvclk.Domain(d), div)
	case "status":
		need(0)
		r, err := c.GetBootStatus(ctx)
		if err != nil {
			log.Fatalf("GetBootStatus: %v", err)
		}
		if !r.SafetyReset {
			fmt.Printf("no safety reset recorded.\n")
			return
		}
		fmt.Printf("safety reset, error code: %s\n", r.Description)
	case "version":
		need(0)
		r, err := c.GetVersion(ctx)
		if err != nil {
			log.Fatalf("GetVersion: %v", err)
		}
		fmt.Printf("%s (%s)\n", r.Version, r.GitHash)
	default:
		usage()
		os.Exit(2)
	}
}
