package derive

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sitepass/internal/common"
)

// Sub-alphabets, one per character class. The symbol set is versioned with
// the algorithm: reordering or changing any of these strings changes derived
// passwords.
const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{}|;:',.<>?/`~"
)

func subAlphabet(c CharClass) string {
	switch c {
	case Lower:
		return lowerChars
	case Upper:
		return upperChars
	case Digit:
		return digitChars
	case Symbol:
		return symbolChars
	}
	return ""
}

// alphabet returns the full alphabet for the set: the concatenation of its
// sub-alphabets in class enumeration order.
func (s ClassSet) alphabet() string {
	var sb strings.Builder
	for _, c := range allClasses {
		if s.Has(c) {
			sb.WriteString(subAlphabet(c))
		}
	}
	return sb.String()
}

// classOf returns the class a character belongs to. The sub-alphabets are
// disjoint, so the answer is unique; characters outside every sub-alphabet
// return 0 (never produced by the encoder).
func classOf(ch byte) CharClass {
	for _, c := range allClasses {
		if strings.IndexByte(subAlphabet(c), ch) >= 0 {
			return c
		}
	}
	return 0
}

// byteFeed consumes a finite entropy buffer one byte at a time. Exhaustion
// is an explicit error, never a silent wrap-around.
type byteFeed struct {
	buf []byte
	pos int
}

func (f *byteFeed) next() (byte, error) {
	if f.pos >= len(f.buf) {
		return 0, fmt.Errorf("%w: consumed all %d bytes", common.ErrBufferExhausted, len(f.buf))
	}
	b := f.buf[f.pos]
	f.pos++
	return b, nil
}

// pickIndex returns a uniform index in [0, n) by rejection sampling bytes
// from the feed: a byte is accepted only if it falls below the largest
// multiple of n that fits in a byte, so every index is exactly equally
// likely. A naive b % n would skew low indices for any n that does not
// divide 256.
//
// All supported alphabets have n <= 92 < 256, so single bytes carry enough
// range and the acceptance probability is at least 1/2.
func pickIndex(f *byteFeed, n int) (int, error) {
	limit := 256 - 256%n
	for {
		b, err := f.next()
		if err != nil {
			return 0, err
		}
		if int(b) < limit {
			return int(b) % n, nil
		}
	}
}

// encode maps the pseudorandom buffer onto a string of exactly length
// characters drawn from the requested classes, with every requested class
// represented at least once. It is a pure function: the same
// (buffer, length, classes) always yields the same string.
//
// The caller is responsible for validating length and classes beforehand
// (see Profile.Validate); encode assumes length >= classes.Count().
func encode(buffer []byte, length int, classes ClassSet) (string, error) {
	full := classes.alphabet()
	feed := &byteFeed{buf: buffer}

	out := make([]byte, length)
	counts := make(map[CharClass]int, len(allClasses))
	for i := range out {
		idx, err := pickIndex(feed, len(full))
		if err != nil {
			return "", err
		}
		out[i] = full[idx]
		counts[classOf(full[idx])]++
	}

	// Class-coverage repair. Missing classes are handled in enumeration
	// order; each one replaces the leftmost position whose current class can
	// spare a character (count >= 2) and that was not itself placed by an
	// earlier repair. The replacement character is rejection-sampled from the
	// missing class's own sub-alphabet, continuing on the same feed, so the
	// result stays a deterministic function of the buffer.
	repaired := make([]bool, length)
	for _, c := range allClasses {
		if !classes.Has(c) || counts[c] > 0 {
			continue
		}
		pos := -1
		for j := range out {
			if repaired[j] {
				continue
			}
			if counts[classOf(out[j])] >= 2 {
				pos = j
				break
			}
		}
		if pos < 0 {
			// Unreachable when length >= classes.Count(): with m classes
			// still missing, the length characters occupy at most
			// Count()-m classes, so some class holds at least two.
			return "", fmt.Errorf("%w: no position available to place class %s",
				common.ErrInvalidProfile, c)
		}
		sub := subAlphabet(c)
		idx, err := pickIndex(feed, len(sub))
		if err != nil {
			return "", err
		}
		counts[classOf(out[pos])]--
		out[pos] = sub[idx]
		counts[c]++
		repaired[pos] = true
	}

	return string(out), nil
}
