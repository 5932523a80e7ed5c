// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvclk

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSigned      = "signed"
	resultNoSignature = "no_signature"
)

var (
	sysclkChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rvlab",
		Subsystem: "sysclk",
		Name:      "reconfigurations_total",
		Help:      "Number of sys_clk divider changes by local outcome",
	}, []string{"result"})
	sysclkDivider = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rvlab",
		Subsystem: "sysclk",
		Name:      "divider",
		Help:      "Last sys_clk divider confirmed to the safety module",
	})
	bootFault = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rvlab",
		Subsystem: "safety",
		Name:      "boot_fault_code",
		Help:      "Safety status register value read after the last reset",
	})
)

func init() {
	prometheus.MustRegister(sysclkChanges)
	prometheus.MustRegister(sysclkDivider)
	prometheus.MustRegister(bootFault)
}

func sysclkResult(r string) prometheus.Counter {
	return sysclkChanges.WithLabelValues(r)
}
