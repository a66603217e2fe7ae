package utils

import (
	"strconv"
	"strings"
)

const byteUnitStep = 1024

// byteUnits lists size suffixes in increasing powers of byteUnitStep.
var byteUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count for the completion notice, for example "512b",
// "1.5kb" or "12mb". Values below ten keep one decimal; negative counts render as "0b".
func FormatFileSize(byteCount int64) string {
	if byteCount < byteUnitStep {
		if byteCount < 0 {
			byteCount = 0
		}
		return strconv.FormatInt(byteCount, 10) + byteUnits[0]
	}
	scaled := float64(byteCount)
	unitIndex := 0
	for scaled >= byteUnitStep && unitIndex < len(byteUnits)-1 {
		scaled /= byteUnitStep
		unitIndex++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	formatted := strings.TrimSuffix(strconv.FormatFloat(scaled, 'f', precision, 64), ".0")
	return formatted + byteUnits[unitIndex]
}
