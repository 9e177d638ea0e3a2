package api

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// ErrBadRequest marks a malformed request field.
var ErrBadRequest = errors.New("bad request")

// String reads a required string field.
func String(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrBadRequest, name)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrBadRequest, name)
	}
	return str.StringValue, nil
}

// OptionalString reads a string field, returning "" when absent.
func OptionalString(s *structpb.Struct, name string) (string, error) {
	if _, ok := s.GetFields()[name]; !ok {
		return "", nil
	}
	return String(s, name)
}

// ID reads a required positive integral number field.
func ID(s *structpb.Struct, name string) (int64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrBadRequest, name)
	}
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", ErrBadRequest, name)
	}
	f := num.NumberValue
	if f != math.Trunc(f) || f < 1 || f > 1<<53 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrBadRequest, name)
	}
	return int64(f), nil
}

// Names reads a field holding flag names: a list of strings or one string
// separated by "|" or ",". A number is returned as its decimal text.
func Names(s *structpb.Struct, name string) ([]string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrBadRequest, name)
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return splitNames(k.StringValue), nil
	case *structpb.Value_ListValue:
		var out []string
		for _, item := range k.ListValue.GetValues() {
			str, ok := item.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return nil, fmt.Errorf("%w: %s must list strings", ErrBadRequest, name)
			}
			out = append(out, splitNames(str.StringValue)...)
		}
		return out, nil
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f != math.Trunc(f) || f < 0 || f > 1<<53 {
			return nil, fmt.Errorf("%w: %s must be a non-negative integer", ErrBadRequest, name)
		}
		return []string{fmt.Sprintf("%d", int64(f))}, nil
	}
	return nil, fmt.Errorf("%w: %s has an unsupported type", ErrBadRequest, name)
}

func splitNames(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
