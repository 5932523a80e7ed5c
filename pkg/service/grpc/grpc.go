// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grpc serves the clock block over gRPC as rvlab.ClockService.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/rvlab/rvlab-go/config"
	"github.com/rvlab/rvlab-go/pkg/logger"
	"github.com/rvlab/rvlab-go/pkg/rvclk"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	service = "rvlab.ClockService"
)

var (
	log = logger.LogContainer.GetSimpleLogger()
)

// ClockServer is the server API of rvlab.ClockService.
//
// Messages are protobuf well-known types so any gRPC client can call the
// service without generated code. See messages.go for the Struct layouts.
type ClockServer interface {
	GetSysclock(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SetSysclock(context.Context, *wrapperspb.UInt32Value) (*emptypb.Empty, error)
	GetDivider(context.Context, *wrapperspb.Int32Value) (*structpb.Struct, error)
	SetDivider(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	GetBootStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetVersion(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

type rpcClockSystem interface {
	Sysclock() uint32
	SetSysclock(uint32) error
	Divider(rvclk.Domain) (uint32, error)
	SetDivider(rvclk.Domain, uint32) error
}

type mgmtServer struct {
	clk     rpcClockSystem
	clock   config.Clock
	boot    rvclk.FaultCode
	version *config.Version
}

func (m *mgmtServer) divider(d rvclk.Domain) (*structpb.Struct, error) {
	div, err := m.clk.Divider(d)
	if err != nil {
		return nil, toStatus(err)
	}
	r := &DividerResponse{
		Clock:       int32(d),
		Name:        d.String(),
		Divider:     div,
		FrequencyHz: m.clock.Frequency(div),
	}
	return r.toStruct(), nil
}

func (m *mgmtServer) GetSysclock(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return m.divider(rvclk.System)
}

func (m *mgmtServer) SetSysclock(ctx context.Context, r *wrapperspb.UInt32Value) (*emptypb.Empty, error) {
	div := r.GetValue()
	if err := m.clk.SetSysclock(div); err != nil {
		log.Errorw("SetSysclock failed", "divider", div, "err", err)
		return nil, toStatus(err)
	}
	log.Infow("sys_clk divider changed", "divider", div)
	return &emptypb.Empty{}, nil
}

func (m *mgmtServer) GetDivider(ctx context.Context, r *wrapperspb.Int32Value) (*structpb.Struct, error) {
	return m.divider(rvclk.Domain(r.GetValue()))
}

func (m *mgmtServer) SetDivider(ctx context.Context, r *structpb.Struct) (*emptypb.Empty, error) {
	clock, err := intField(r, fieldClock, math.MinInt32, math.MaxInt32)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	div, err := intField(r, fieldDivider, 0, math.MaxUint32)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := m.clk.SetDivider(rvclk.Domain(clock), uint32(div)); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (m *mgmtServer) GetBootStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	r := &GetBootStatusResponse{
		Code:        m.boot.Code(),
		Known:       m.boot.Known(),
		SafetyReset: m.boot != rvclk.FaultNone,
		Description: m.boot.String(),
	}
	return r.toStruct(), nil
}

func (m *mgmtServer) GetVersion(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	r := &GetVersionResponse{Version: m.version.Version, GitHash: m.version.GitHash}
	return r.toStruct(), nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, rvclk.ErrDivisionByZero):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, rvclk.ErrGatedDomain), errors.Is(err, rvclk.ErrUnknownDomain):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// unary adapts a typed ClockServer method to a grpc.MethodDesc.
func unary[Req, Resp any](name string, call func(ClockServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	full := fmt.Sprintf("/%s/%s", service, name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ClockServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ClockServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: service,
	HandlerType: (*ClockServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetSysclock", ClockServer.GetSysclock),
		unary("SetSysclock", ClockServer.SetSysclock),
		unary("GetDivider", ClockServer.GetDivider),
		unary("SetDivider", ClockServer.SetDivider),
		unary("GetBootStatus", ClockServer.GetBootStatus),
		unary("GetVersion", ClockServer.GetVersion),
	},
	Streams: []grpc.StreamDesc{},
}

// NewServer returns a gRPC server exporting clk. boot is the fault code
// classified at startup, the status register is not read again.
func NewServer(clk rpcClockSystem, clock config.Clock, boot rvclk.FaultCode, v *config.Version) *grpc.Server {
	g := grpc.NewServer(
		grpc.StreamInterceptor(grpc_prometheus.StreamServerInterceptor),
		grpc.UnaryInterceptor(grpc_prometheus.UnaryServerInterceptor),
	)
	g.RegisterService(&serviceDesc, &mgmtServer{clk: clk, clock: clock, boot: boot, version: v})
	grpc_prometheus.Register(g)
	return g
}

// Listen opens the listener for the management service.
func Listen(addr string) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not listen: %v", err)
	}
	return l, nil
}
