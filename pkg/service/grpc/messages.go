// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grpc

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are protobuf well-known types. Requests with more than one field
// and all structured replies are google.protobuf.Struct with the field names
// below.
const (
	fieldClock       = "clock"
	fieldName        = "name"
	fieldDivider     = "divider"
	fieldFrequencyHz = "frequency_hz"
	fieldCode        = "code"
	fieldKnown       = "known"
	fieldSafetyReset = "safety_reset"
	fieldDescription = "description"
	fieldVersion     = "version"
	fieldGitHash     = "git_hash"
)

// DividerResponse describes one clock output. Clock 0 is sys_clk and 1..6
// the auxiliary outputs.
type DividerResponse struct {
	Clock       int32
	Name        string
	Divider     uint32
	FrequencyHz uint64
}

func (r *DividerResponse) toStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldClock:       structpb.NewNumberValue(float64(r.Clock)),
		fieldName:        structpb.NewStringValue(r.Name),
		fieldDivider:     structpb.NewNumberValue(float64(r.Divider)),
		fieldFrequencyHz: structpb.NewNumberValue(float64(r.FrequencyHz)),
	}}
}

func dividerFromStruct(s *structpb.Struct) (*DividerResponse, error) {
	clock, err := intField(s, fieldClock, math.MinInt32, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	div, err := intField(s, fieldDivider, 0, math.MaxUint32)
	if err != nil {
		return nil, err
	}
	freq, err := intField(s, fieldFrequencyHz, 0, 1<<53)
	if err != nil {
		return nil, err
	}
	return &DividerResponse{
		Clock:       int32(clock),
		Name:        s.GetFields()[fieldName].GetStringValue(),
		Divider:     uint32(div),
		FrequencyHz: uint64(freq),
	}, nil
}

// GetBootStatusResponse is the safety status read when the service started.
type GetBootStatusResponse struct {
	Code        uint32
	Known       bool
	SafetyReset bool
	Description string
}

func (r *GetBootStatusResponse) toStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldCode:        structpb.NewNumberValue(float64(r.Code)),
		fieldKnown:       structpb.NewBoolValue(r.Known),
		fieldSafetyReset: structpb.NewBoolValue(r.SafetyReset),
		fieldDescription: structpb.NewStringValue(r.Description),
	}}
}

func bootStatusFromStruct(s *structpb.Struct) (*GetBootStatusResponse, error) {
	code, err := intField(s, fieldCode, 0, math.MaxUint32)
	if err != nil {
		return nil, err
	}
	f := s.GetFields()
	return &GetBootStatusResponse{
		Code:        uint32(code),
		Known:       f[fieldKnown].GetBoolValue(),
		SafetyReset: f[fieldSafetyReset].GetBoolValue(),
		Description: f[fieldDescription].GetStringValue(),
	}, nil
}

type GetVersionResponse struct {
	Version string
	GitHash string
}

func (r *GetVersionResponse) toStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldVersion: structpb.NewStringValue(r.Version),
		fieldGitHash: structpb.NewStringValue(r.GitHash),
	}}
}

func versionFromStruct(s *structpb.Struct) *GetVersionResponse {
	f := s.GetFields()
	return &GetVersionResponse{
		Version: f[fieldVersion].GetStringValue(),
		GitHash: f[fieldGitHash].GetStringValue(),
	}
}

func setDividerRequest(clock int32, div uint32) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldClock:   structpb.NewNumberValue(float64(clock)),
		fieldDivider: structpb.NewNumberValue(float64(div)),
	}}
}

// intField returns the named number field, which has to be integral and
// within [min, max]. Struct numbers are doubles, every uint32 fits exactly.
func intField(s *structpb.Struct, name string, min, max float64) (int64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", name)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f < min || f > max {
		return 0, fmt.Errorf("field %q out of range: %v", name, f)
	}
	return int64(f), nil
}
