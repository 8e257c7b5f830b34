package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/coolbeans/sdnexport/pkg/reference"
	"github.com/coolbeans/sdnexport/pkg/sdn"
	"github.com/coolbeans/sdnexport/pkg/table"
)

// PrintDownloadProgress is a fetch.ProgressCallback that prints a progress bar.
func PrintDownloadProgress(bytesDownloaded int64, totalBytes int64) {
	if totalBytes > 0 {
		percentage := float64(bytesDownloaded) / float64(totalBytes) * 100
		barLength := int(percentage / 2)
		if barLength > 50 {
			barLength = 50
		}
		fmt.Printf("\r  [%-50s] %.1f%% (%s / %s)",
			strings.Repeat("=", barLength)+strings.Repeat(" ", 50-barLength),
			percentage,
			FormatBytes(bytesDownloaded),
			FormatBytes(totalBytes))
	} else {
		fmt.Printf("\r  Downloaded: %s", FormatBytes(bytesDownloaded))
	}
}

// FormatBytes converts byte count to human-readable format.
func FormatBytes(byteCount int64) string {
	switch {
	case byteCount >= 1024*1024*1024:
		return fmt.Sprintf("%.1f GB", float64(byteCount)/(1024*1024*1024))
	case byteCount >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(byteCount)/(1024*1024))
	case byteCount >= 1024:
		return fmt.Sprintf("%.1f KB", float64(byteCount)/1024)
	default:
		return fmt.Sprintf("%d B", byteCount)
	}
}

// FormatRunReport formats a RunReport for terminal output.
func FormatRunReport(report *RunReport) string {
	var builder strings.Builder

	status := "[OK]"
	switch report.Status {
	case StatusFailure:
		status = "[FAIL]"
	case StatusSkipped:
		status = "[SKIP]"
	}

	builder.WriteString("\nSDN Export Report\n")
	builder.WriteString(strings.Repeat("═", 60) + "\n")
	builder.WriteString(fmt.Sprintf("%s run %s in %s\n", status, report.RunID, report.Duration().Round(time.Millisecond)))
	builder.WriteString(fmt.Sprintf("  Source:        %s (%s)\n", report.Source, FormatBytes(report.SourceBytes)))
	if report.NotModified {
		builder.WriteString("  Feed:          not modified since last fetch\n")
	}
	if report.DateOfIssue != "" {
		builder.WriteString(fmt.Sprintf("  Date of issue: %s\n", report.DateOfIssue))
	}

	if len(report.RowCounts) > 0 {
		builder.WriteString(strings.Repeat("─", 60) + "\n")
		for _, sheetName := range orderedSheetNames(report.RowCounts) {
			builder.WriteString(fmt.Sprintf("  %-20s %8d rows\n", sheetName, report.RowCounts[sheetName]))
		}
		builder.WriteString(fmt.Sprintf("  %-20s %8d rows\n", "Total", report.TotalRows()))
	}

	if len(report.Artifacts) > 0 {
		builder.WriteString(strings.Repeat("─", 60) + "\n")
		for _, artifact := range report.Artifacts {
			builder.WriteString(fmt.Sprintf("  wrote     %s\n", artifact))
		}
		for _, publishedURL := range report.PublishedURLs {
			builder.WriteString(fmt.Sprintf("  published %s\n", publishedURL))
		}
	}

	if report.Error != "" {
		builder.WriteString(fmt.Sprintf("  error: %s\n", report.Error))
	}

	return builder.String()
}

// orderedSheetNames lists the known sheets in output order, then any others sorted.
func orderedSheetNames(rowCounts map[string]int) []string {
	names := make([]string, 0, len(rowCounts))
	known := make(map[string]bool, len(table.Order))
	for _, sheetName := range table.Order {
		known[sheetName] = true
		if _, ok := rowCounts[sheetName]; ok {
			names = append(names, sheetName)
		}
	}

	var others []string
	for sheetName := range rowCounts {
		if !known[sheetName] {
			others = append(others, sheetName)
		}
	}
	sort.Strings(others)
	return append(names, others...)
}

// FormatRunReportJSON formats a RunReport as JSON.
func FormatRunReportJSON(report *RunReport) string {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}

// FormatDocumentSummary describes a parsed feed: publication date, entity
// counts and the size of each reference table.
func FormatDocumentSummary(document *sdn.Document, tables *reference.Tables) string {
	var builder strings.Builder

	builder.WriteString("\nSDN Advanced Document\n")
	builder.WriteString(strings.Repeat("═", 50) + "\n")
	if !document.DateOfIssue.IsZero() {
		builder.WriteString(fmt.Sprintf("Date of issue: %s-%s-%s\n",
			document.DateOfIssue.Year, document.DateOfIssue.Month, document.DateOfIssue.Day))
	}

	counts := document.Count()
	builder.WriteString("\nEntities\n")
	builder.WriteString(strings.Repeat("─", 50) + "\n")
	for _, line := range []struct {
		label string
		count int
	}{
		{"Distinct parties", counts.Parties},
		{"Profiles", counts.Profiles},
		{"Identities", counts.Identities},
		{"Aliases", counts.Aliases},
		{"Documented names", counts.DocumentedNames},
		{"Features", counts.Features},
		{"Locations", counts.Locations},
		{"ID documents", counts.IDRegDocuments},
		{"Sanctions entries", counts.SanctionsEntries},
		{"Sanctions measures", counts.SanctionsMeasures},
	} {
		builder.WriteString(fmt.Sprintf("  %-22s %8d\n", line.label, line.count))
	}

	sizes := tables.Sizes()
	referenceNames := make([]string, 0, len(sizes))
	for name := range sizes {
		referenceNames = append(referenceNames, name)
	}
	sort.Strings(referenceNames)

	builder.WriteString("\nReference values\n")
	builder.WriteString(strings.Repeat("─", 50) + "\n")
	for _, name := range referenceNames {
		builder.WriteString(fmt.Sprintf("  %-22s %8d\n", name, sizes[name]))
	}

	return builder.String()
}
