package activity

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatDuration renders minutes as "3h 25m".
func FormatDuration(minutes float64) string {
	total := int(minutes)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// FormatDistance renders kilometers as "1,234.5 km".
func FormatDistance(km float64) string {
	tenths := int64(math.Round(km * 10))
	sign := ""
	if tenths < 0 {
		sign = "-"
		tenths = -tenths
	}
	return fmt.Sprintf("%s%s.%d km", sign, humanize.Comma(tenths/10), tenths%10)
}

// FormatElevation renders meters as "1,234 m".
func FormatElevation(m float64) string {
	return humanize.Comma(int64(math.Round(m))) + " m"
}
