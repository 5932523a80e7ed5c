// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to a clock service without transport security.
func Dial(ctx context.Context, target string) (*Client, error) {
	c, err := grpc.DialContext(ctx, target,
		grpc.WithBlock(),
		grpc.WithInsecure())
	if err != nil {
		return nil, err
	}
	return &Client{c}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, in, out proto.Message) error {
	return c.conn.Invoke(ctx, "/"+service+"/"+method, in, out)
}

func (c *Client) divider(ctx context.Context, method string, in proto.Message) (*DividerResponse, error) {
	out := &structpb.Struct{}
	if err := c.invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	r, err := dividerFromStruct(out)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "bad %s reply: %v", method, err)
	}
	return r, nil
}

func (c *Client) GetSysclock(ctx context.Context) (*DividerResponse, error) {
	return c.divider(ctx, "GetSysclock", &emptypb.Empty{})
}

func (c *Client) SetSysclock(ctx context.Context, div uint32) error {
	return c.invoke(ctx, "SetSysclock", wrapperspb.UInt32(div), &emptypb.Empty{})
}

func (c *Client) GetDivider(ctx context.Context, clock int32) (*DividerResponse, error) {
	return c.divider(ctx, "GetDivider", wrapperspb.Int32(clock))
}

func (c *Client) SetDivider(ctx context.Context, clock int32, div uint32) error {
	return c.invoke(ctx, "SetDivider", setDividerRequest(clock, div), &emptypb.Empty{})
}

func (c *Client) GetBootStatus(ctx context.Context) (*GetBootStatusResponse, error) {
	out := &structpb.Struct{}
	if err := c.invoke(ctx, "GetBootStatus", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	r, err := bootStatusFromStruct(out)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "bad GetBootStatus reply: %v", err)
	}
	return r, nil
}

func (c *Client) GetVersion(ctx context.Context) (*GetVersionResponse, error) {
	out := &structpb.Struct{}
	if err := c.invoke(ctx, "GetVersion", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return versionFromStruct(out), nil
}
