package parkingclient

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeDateID converts a date in YYYY-MM-DD or YYYY-M-D form into the unpadded
// YYYY-M-D identifier the backend's update endpoints key dates by.
// ISO timestamps are truncated to their date part. Anything else is returned unchanged.
func NormalizeDateID(date string) string {
	year, month, day, ok := splitDate(datePart(date))
	if !ok {
		return date
	}
	return fmt.Sprintf("%d-%d-%d", year, month, day)
}

// PaddedDate converts a date in either form to YYYY-MM-DD.
// ISO timestamps are truncated to their date part.
func PaddedDate(date string) string {
	year, month, day, ok := splitDate(datePart(date))
	if !ok {
		return date
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// datePart drops the time of an ISO timestamp
func datePart(date string) string {
	if i := strings.IndexByte(date, 'T'); i > 0 {
		return date[:i]
	}
	return date
}

// SameDay reports whether two date strings name the same calendar day regardless of padding
func SameDay(a, b string) bool {
	return PaddedDate(a) == PaddedDate(b)
}

// looksLikeDate reports whether s parses as a YYYY-M-D style date
func looksLikeDate(s string) bool {
	_, _, _, ok := splitDate(s)
	return ok
}

func splitDate(date string) (int, int, int, bool) {
	parts := strings.Split(strings.TrimSpace(date), "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return 0, 0, 0, false
	}

	return year, month, day, true
}
