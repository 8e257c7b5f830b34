package extract

import "github.com/coolbeans/sdnexport/pkg/sdn"

// formatDate renders a date as "{year}-{month}-{day}" with the feed's own
// (unpadded) text.
func formatDate(point sdn.DatePoint) string {
	return point.Year + "-" + point.Month + "-" + point.Day
}

func formatBoundary(boundary *sdn.DateBoundary) string {
	return formatDate(boundary.Point())
}

// formatPeriod renders a period as "{start} to {end}", "From {start}",
// "Until {end}", or "" when it has neither bound.
func formatPeriod(period *sdn.DatePeriod) string {
	if period == nil {
		return ""
	}

	switch {
	case period.Start != nil && period.End != nil:
		return formatBoundary(period.Start) + " to " + formatBoundary(period.End)
	case period.Start != nil:
		return "From " + formatBoundary(period.Start)
	case period.End != nil:
		return "Until " + formatBoundary(period.End)
	default:
		return ""
	}
}
