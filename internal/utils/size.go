package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// fileSizeUnits lists the units in ascending order of magnitude.
var fileSizeUnits = []string{"b", "kb", "mb", "gb", "tb", "pb"}

const errorInvalidFileSizeFormat = "invalid file size %q"

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0b"
	}
	value := float64(bytes)
	unitIndex := 0
	for value >= 1024 && unitIndex < len(fileSizeUnits)-1 {
		value /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", bytes)
	}
	if value < 10 {
		formatted := fmt.Sprintf("%.1f", value)
		formatted = strings.TrimSuffix(formatted, ".0")
		return formatted + fileSizeUnits[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", value, fileSizeUnits[unitIndex])
}

// ParseFileSize converts values such as "512000", "500kb" or "1.5mb" into bytes.
// Units are binary multiples and case-insensitive; a bare number is a byte count.
func ParseFileSize(value string) (int64, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	if normalizedValue == "" {
		return 0, fmt.Errorf(errorInvalidFileSizeFormat, value)
	}
	multiplier := int64(1)
	numberPart := normalizedValue
	for unitIndex := len(fileSizeUnits) - 1; unitIndex >= 0; unitIndex-- {
		unit := fileSizeUnits[unitIndex]
		if strings.HasSuffix(normalizedValue, unit) {
			numberPart = strings.TrimSpace(strings.TrimSuffix(normalizedValue, unit))
			for power := 0; power < unitIndex; power++ {
				multiplier *= 1024
			}
			break
		}
	}
	if wholeNumber, parseError := strconv.ParseInt(numberPart, 10, 64); parseError == nil {
		if wholeNumber < 0 {
			return 0, fmt.Errorf(errorInvalidFileSizeFormat, value)
		}
		return wholeNumber * multiplier, nil
	}
	fractionalNumber, parseError := strconv.ParseFloat(numberPart, 64)
	if parseError != nil || fractionalNumber < 0 {
		return 0, fmt.Errorf(errorInvalidFileSizeFormat, value)
	}
	return int64(fractionalNumber * float64(multiplier)), nil
}
