package utils

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidUTF8 reports file content that cannot be decoded as UTF-8 text.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// DecodeText returns data as a string when it is valid UTF-8.
// Otherwise the error wraps ErrInvalidUTF8 and names the offset of the first invalid byte.
func DecodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	offset := firstInvalidOffset(data)
	return "", fmt.Errorf("%w: cannot decode byte 0x%02x at offset %d", ErrInvalidUTF8, data[offset], offset)
}

func firstInvalidOffset(data []byte) int {
	offset := 0
	for offset < len(data) {
		decodedRune, runeWidth := utf8.DecodeRune(data[offset:])
		if decodedRune == utf8.RuneError && runeWidth == 1 {
			return offset
		}
		offset += runeWidth
	}
	return offset
}
