// Package properties decodes and encodes the boolean flags that every
// entity carries as a single integer code.
//
// Each entity kind has its own flag type. A flag value is the bit position
// it occupies, so the position table of a kind is fixed at compile time by
// the order of its constants. Bits is parameterised by that type, which
// keeps event flags from being read off a user's code.
package properties

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/intelshare/internal/common"
)

// MaxBits is the width of a code.
const MaxBits = 64

// conjunction separates flag names in a combined read such as
// "validated_and_shareable".
const conjunction = "_and_"

// Flag is a named bit position of one entity kind. Defined flags of a kind
// occupy the positions 0..n-1 and Valid reports false from n on.
type Flag interface {
	~uint8
	fmt.Stringer
	Valid() bool
}

// Bits is an immutable view over a code. Every mutator returns a new value;
// callers persist Code themselves.
type Bits[F Flag] uint64

// Vocabulary returns every defined flag of kind F in bit order.
func Vocabulary[F Flag]() []F {
	var out []F
	for i := 0; i < MaxBits; i++ {
		f := F(i)
		if !f.Valid() {
			break
		}
		out = append(out, f)
	}
	return out
}

// Lookup resolves a flag by name.
func Lookup[F Flag](name string) (F, error) {
	for _, f := range Vocabulary[F]() {
		if f.String() == name {
			return f, nil
		}
	}
	var zero F
	return zero, fmt.Errorf("%w: %q", common.ErrUnknownFlag, name)
}

// Parse reads a decimal code. An empty string is the zero code.
func Parse[F Flag](s string) (Bits[F], error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, MaxBits)
	if err != nil {
		return 0, fmt.Errorf("parse code %q: %w", s, err)
	}
	return Bits[F](v), nil
}

func mask[F Flag](f F) uint64 {
	return 1 << uint(f)
}

// Code returns the raw integer.
func (b Bits[F]) Code() uint64 {
	return uint64(b)
}

// Has reports whether f is set.
func (b Bits[F]) Has(f F) bool {
	return uint64(b)&mask(f) != 0
}

// HasAll reports whether every flag in fs is set.
func (b Bits[F]) HasAll(fs ...F) bool {
	for _, f := range fs {
		if !b.Has(f) {
			return false
		}
	}
	return true
}

// With returns a copy of b with f set or cleared.
func (b Bits[F]) With(f F, on bool) Bits[F] {
	if on {
		return Bits[F](uint64(b) | mask(f))
	}
	return Bits[F](uint64(b) &^ mask(f))
}

// Get reads a flag by name. Names joined by "_and_" are read as a
// conjunction of their parts.
func (b Bits[F]) Get(name string) (bool, error) {
	result := true
	for _, part := range strings.Split(name, conjunction) {
		f, err := Lookup[F](part)
		if err != nil {
			return false, err
		}
		result = result && b.Has(f)
	}
	return result, nil
}

// Set returns a copy of b with the named flag set or cleared.
func (b Bits[F]) Set(name string, on bool) (Bits[F], error) {
	f, err := Lookup[F](name)
	if err != nil {
		return b, err
	}
	return b.With(f, on), nil
}

// Decode expands the defined flags of b. Reserved bits are not part of the
// result but stay in b.
func (b Bits[F]) Decode() map[F]bool {
	vocab := Vocabulary[F]()
	out := make(map[F]bool, len(vocab))
	for _, f := range vocab {
		out[f] = b.Has(f)
	}
	return out
}

// Encode applies flags on top of b. Flags absent from the map and bits
// outside the vocabulary keep their current value.
func (b Bits[F]) Encode(flags map[F]bool) Bits[F] {
	out := b
	for f, on := range flags {
		out = out.With(f, on)
	}
	return out
}

// String lists the names of the set flags, e.g. "validated|shareable".
func (b Bits[F]) String() string {
	var set []string
	for _, f := range Vocabulary[F]() {
		if b.Has(f) {
			set = append(set, f.String())
		}
	}
	if len(set) == 0 {
		return "none"
	}
	return strings.Join(set, "|")
}
