package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatInt renders an int value's canonical debug form (spec §6.3):
// decimal, no thousands separator, "-" prefix for negatives.
func FormatInt(i int64) string { return strconv.FormatInt(i, 10) }

// FormatUint renders a uint value's canonical debug form.
func FormatUint(u uint64) string { return strconv.FormatUint(u, 10) }

// FormatDouble renders a double value's canonical debug form (spec §6.3):
// shortest round-trip decimal; integral finite values get a trailing
// ".0"; NaN and the infinities get their CEL spellings.
func FormatDouble(d float64) string {
	switch {
	case math.IsNaN(d):
		return "nan"
	case math.IsInf(d, 1):
		return "+infinity"
	case math.IsInf(d, -1):
		return "-infinity"
	}
	s := strconv.FormatFloat(d, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// QuoteString renders a string value's debug form: double-quoted UTF-8
// with C-style escaping of control characters (spec §6.3).
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, "\\x%02x", r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// QuoteBytes renders a bytes value's debug form: double-quoted with
// C-style octal escaping for control bytes and non-ASCII bytes (>= 0x7F),
// per spec §6.3.
func QuoteBytes(data []byte) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range data {
		switch {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\r':
			b.WriteString(`\r`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
