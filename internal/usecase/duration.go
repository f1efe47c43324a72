package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// isoDurationRegex matches the subset of ISO-8601 durations flight APIs emit: PnDTnHnMnS.
var isoDurationRegex = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration parses strings such as "PT5H30M" or "P1DT2H".
func parseISODuration(s string) (time.Duration, error) {
	m := isoDurationRegex.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
	}

	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", s, err)
		}
		total += time.Duration(n) * unit
	}
	return total, nil
}

// formatDuration renders a duration as "Xh Ym", rounded to the minute.
func formatDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
