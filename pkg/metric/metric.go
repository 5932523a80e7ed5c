// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns a mux serving /metrics.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Listen opens the metrics listener, Serve has to be called to answer.
func Listen(addr string) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not listen: %v", err)
	}
	return l, nil
}

// Serve answers metrics requests on l until it is closed.
func Serve(l net.Listener) error {
	err := http.Serve(l, Handler())
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
