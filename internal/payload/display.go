package payload

import (
	"fmt"
	"strconv"
	"strings"

	"rideadmin/pricing/internal/classifier"
)

// FormatMinutesDisplay renders an includedMinutes label. Under the hourly
// subcategory a whole number of hours also shows its hour count, so "120"
// becomes "120 (2h)". Other values are returned trimmed and unchanged.
func FormatMinutesDisplay(minutes, subcategoryName string) string {
	value := strings.TrimSpace(minutes)
	if !classifier.IsHourlyName(subcategoryName) {
		return value
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil || n <= 0 || n != float64(int64(n)) {
		return value
	}
	whole := int64(n)
	if whole%60 != 0 {
		return value
	}
	return fmt.Sprintf("%s (%dh)", value, whole/60)
}
