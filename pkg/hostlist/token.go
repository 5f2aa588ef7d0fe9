package hostlist

import (
	"strconv"
	"strings"
)

// NumberToken is a digit run with its zero padding preserved. Padding
// counts the leading zeros that carry no numeric weight: "007" has
// padding 2 and value 7, while "000" has padding 2 and value 0.
type NumberToken struct {
	Padding int
	Value   uint64
}

// text reconstructs the digit run exactly as it was written.
func (t NumberToken) text() string {
	return strings.Repeat("0", t.Padding) + strconv.FormatUint(t.Value, 10)
}

// tokenizeDigits converts a digit run into a NumberToken. It reports
// false when the value part does not fit in a uint64.
func tokenizeDigits(run string) (NumberToken, bool) {
	zeros := 0
	for zeros < len(run) && run[zeros] == '0' {
		zeros++
	}
	if zeros == len(run) {
		// an all-zero run keeps one digit as its value
		zeros--
	}
	v, err := strconv.ParseUint(run[zeros:], 10, 64)
	if err != nil {
		return NumberToken{}, false
	}
	return NumberToken{Padding: zeros, Value: v}, true
}
