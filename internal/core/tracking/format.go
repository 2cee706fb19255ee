package tracking

import "strconv"

// FormatBytes 格式化字节数，如 "1.50 KB"
func FormatBytes(bytes int64) string {
	return formatUnit(float64(bytes), "B")
}

// FormatRate 格式化字节速率，如 "104 B/s"
func FormatRate(bytesPerSec int) string {
	return formatUnit(float64(bytesPerSec), "B/s")
}

func formatUnit(val float64, suffix string) string {
	const unit = 1024
	if val < 0 {
		return "-" + formatUnit(-val, suffix)
	}

	prefix := ""
	for _, p := range []string{"K", "M", "G", "T"} {
		if val < unit {
			break
		}
		val /= unit
		prefix = p
	}

	prec := 0
	switch {
	case prefix == "":
	case val < 10:
		prec = 2
	case val < 100:
		prec = 1
	}
	return strconv.FormatFloat(val, 'f', prec, 64) + " " + prefix + suffix
}
