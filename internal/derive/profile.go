// Package derive implements the deterministic password derivation engine:
// canonical framing of (master secret, site profile), Argon2id key
// stretching, and unbiased encoding of the stretched bytes onto a
// constrained alphabet.
//
// Everything in this package is a pure function of its inputs. The same
// (secret, profile, salt) triple always produces the same password; the
// package performs no I/O and holds no state.
package derive

import (
	"fmt"

	"github.com/dmitrijs2005/sitepass/internal/common"
	"github.com/google/uuid"
)

// CharClass identifies one of the four supported character classes.
type CharClass uint8

const (
	Lower CharClass = 1 << iota
	Upper
	Digit
	Symbol
)

// allClasses lists the classes in their fixed enumeration order. This order
// is part of the algorithm: framing encodes the class bitmask, the full
// alphabet is the concatenation of sub-alphabets in this order, and the
// class-coverage repair scans missing classes in this order.
var allClasses = []CharClass{Lower, Upper, Digit, Symbol}

func (c CharClass) String() string {
	switch c {
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	case Digit:
		return "digit"
	case Symbol:
		return "symbol"
	}
	return "unknown"
}

// ClassSet is a bitmask of CharClass values.
type ClassSet uint8

// AllClasses is the set of all four character classes.
const AllClasses = ClassSet(Lower | Upper | Digit | Symbol)

// Has reports whether the set contains the given class.
func (s ClassSet) Has(c CharClass) bool {
	return s&ClassSet(c) != 0
}

// Count returns the number of classes in the set.
func (s ClassSet) Count() int {
	n := 0
	for _, c := range allClasses {
		if s.Has(c) {
			n++
		}
	}
	return n
}

// String renders the set in compact "luds" notation, one letter per class
// in enumeration order (e.g. "ld" = lower+digit).
func (s ClassSet) String() string {
	b := make([]byte, 0, 4)
	for _, c := range allClasses {
		if s.Has(c) {
			b = append(b, c.String()[0])
		}
	}
	return string(b)
}

// ParseClassSet parses the compact "luds" notation produced by String.
// Repeated letters are allowed; unknown letters are an error.
func ParseClassSet(spec string) (ClassSet, error) {
	var s ClassSet
	for i := 0; i < len(spec); i++ {
		switch spec[i] {
		case 'l':
			s |= ClassSet(Lower)
		case 'u':
			s |= ClassSet(Upper)
		case 'd':
			s |= ClassSet(Digit)
		case 's':
			s |= ClassSet(Symbol)
		default:
			return 0, fmt.Errorf("%w: unknown class %q in %q", common.ErrInvalidProfile, spec[i], spec)
		}
	}
	if s == 0 {
		return 0, fmt.Errorf("%w: empty class set", common.ErrInvalidProfile)
	}
	return s, nil
}

// Password length bounds accepted by derivation.
const (
	MinLength = 4
	MaxLength = 64
)

// Profile describes one site's generation policy. It is treated as a
// read-only input per derivation call; the storage layer owns its lifecycle.
//
// ID identifies the persisted row only. It is deliberately not an input to
// derivation, so a profile re-created on the same installation with the same
// label, counter and classes reproduces the same password.
type Profile struct {
	ID        uuid.UUID
	SiteLabel string
	Length    int
	Classes   ClassSet
	Counter   uint32
}

// Validate checks the profile against the data-model invariants. All
// violations wrap common.ErrInvalidProfile and are reported before any
// hashing occurs.
func (p *Profile) Validate() error {
	if p.SiteLabel == "" {
		return fmt.Errorf("%w: empty site label", common.ErrInvalidProfile)
	}
	if p.Classes == 0 {
		return fmt.Errorf("%w: empty class set", common.ErrInvalidProfile)
	}
	if p.Length < MinLength || p.Length > MaxLength {
		return fmt.Errorf("%w: length %d outside [%d, %d]",
			common.ErrInvalidProfile, p.Length, MinLength, MaxLength)
	}
	if n := p.Classes.Count(); p.Length < n {
		return fmt.Errorf("%w: length %d cannot cover %d classes",
			common.ErrInvalidProfile, p.Length, n)
	}
	return nil
}
