// core/onehot/iupac.go
package onehot

import (
	"fmt"
	"strings"
	"unicode"
)

// Channel order of every encoded matrix.
const Alphabet = "ACGT"

// AlphabetSize is the channel count of an encoded sequence.
const AlphabetSize = len(Alphabet)

/* -------------------------- IUPAC lookup table -------------------------- */

var iupacMask [256]byte // bit0=A bit1=C bit2=G bit3=T

func init() {
	set := func(c byte, bits byte) {
		iupacMask[c] = bits
		iupacMask[c+'a'-'A'] = bits
	}
	set('A', 1)       // 0001
	set('C', 2)       // 0010
	set('G', 4)       // 0100
	set('T', 8)       // 1000
	set('R', 1|4)     // A/G
	set('Y', 2|8)     // C/T
	set('S', 2|4)     // C/G
	set('W', 1|8)     // A/T
	set('K', 4|8)     // G/T
	set('M', 1|2)     // A/C
	set('B', 2|4|8)   // C/G/T
	set('D', 1|4|8)   // A/G/T
	set('H', 1|2|8)   // A/C/T
	set('V', 1|2|4)   // A/C/G
	set('N', 1|2|4|8) // any
}

// Mask returns the IUPAC base set of b (bit0=A .. bit3=T), 0 if b is not a
// nucleotide code.
func Mask(b byte) byte { return iupacMask[b] }

// IsBase reports whether b is exactly one of A, C, G, T (any case).
func IsBase(b byte) bool {
	m := Mask(b)
	return m != 0 && m&(m-1) == 0
}

// Normalize removes spaces/quotes and uppercases bases.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '\'' || r == '"' {
			continue
		}
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}

// Validate returns the normalized consensus or an error naming the first
// non-IUPAC symbol.
func Validate(raw string) (string, error) {
	s := Normalize(raw)
	if s == "" {
		return "", fmt.Errorf("empty motif")
	}
	for i := 0; i < len(s); i++ {
		if Mask(s[i]) == 0 {
			return "", fmt.Errorf("invalid base %q at %d; allowed: A C G T R Y S W K M B D H V N", s[i], i+1)
		}
	}
	return s, nil
}
