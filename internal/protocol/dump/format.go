package dump

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/danmuck/tlvdump/internal/protocol/wire"
)

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func formatInt128(v wire.Int128) string {
	return strconv.FormatUint(v.High, 10) + " * 2^64 + " + strconv.FormatUint(v.Low, 10)
}

func formatInt256(v wire.Int256) string {
	return strconv.FormatUint(v.High.High, 10) + " * 2^192 + " +
		strconv.FormatUint(v.High.Low, 10) + " * 2^128 + " +
		strconv.FormatUint(v.Low.High, 10) + " * 2^64 + " +
		strconv.FormatUint(v.Low.Low, 10)
}

// formatDouble matches the six significant digit %g rendering used by the
// existing log tooling, including its lower-case nan and inf.
func formatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// formatString renders text payloads quoted and anything else as a hex dump.
func formatString(b []byte) string {
	if utf8.Valid(b) {
		return `"` + stringEscaper.Replace(string(b)) + `" [STRING]`
	}
	return hexDump(b) + " [" + strconv.Itoa(len(b)) + " BYTES]"
}

func hexDump(b []byte) string {
	const digits = "0123456789ABCDEF"
	if len(b) == 0 {
		return ""
	}
	out := make([]byte, 0, len(b)*3-1)
	for i, c := range b {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[c>>4], digits[c&0x0f])
	}
	return string(out)
}
