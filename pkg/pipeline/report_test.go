package pipeline

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/sdnexport/pkg/reference"
	"github.com/coolbeans/sdnexport/pkg/sdn"
	"github.com/coolbeans/sdnexport/pkg/table"
)

func TestFormatBytes(t *testing.T) {
	testCases := []struct {
		name     string
		input    int64
		expected string
	}{
		{"zero bytes", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"kilobytes", 1536, "1.5 KB"},
		{"megabytes", 5242880, "5.0 MB"},
		{"gigabytes", 1610612736, "1.5 GB"},
		{"exact KB", 1024, "1.0 KB"},
		{"exact MB", 1048576, "1.0 MB"},
		{"exact GB", 1073741824, "1.0 GB"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, FormatBytes(testCase.input))
		})
	}
}

func sampleReport() *RunReport {
	startedAt := time.Date(2024, 7, 12, 6, 0, 0, 0, time.UTC)
	return &RunReport{
		RunID:       "3f1c2a9e-0000-4000-8000-000000000001",
		Status:      StatusSuccess,
		Source:      "https://example.com/sdn_advanced.xml",
		SourceBytes: 2048,
		DateOfIssue: "2024-7-12",
		RowCounts: map[string]int{
			table.NameSheet:    3,
			table.FeatureSheet: 5,
			"EXTRA":            1,
		},
		Artifacts:     []string{"output/sdn_output.xlsx"},
		PublishedURLs: []string{"https://exports.s3.us-east-1.amazonaws.com/sdn/sdn_output.xlsx"},
		StartedAt:     startedAt,
		FinishedAt:    startedAt.Add(1500 * time.Millisecond),
	}
}

func TestFormatRunReport(t *testing.T) {
	output := FormatRunReport(sampleReport())

	for _, expected := range []string{
		"SDN Export Report",
		"[OK] run 3f1c2a9e-0000-4000-8000-000000000001 in 1.5s",
		"https://example.com/sdn_advanced.xml (2.0 KB)",
		"Date of issue: 2024-7-12",
		"wrote     output/sdn_output.xlsx",
		"published https://exports.s3.us-east-1.amazonaws.com/sdn/sdn_output.xlsx",
	} {
		assert.Contains(t, output, expected)
	}
	assert.Regexp(t, `Total\s+9 rows`, output)

	// sheets in output order, unknown sheets last
	featureIndex := strings.Index(output, table.FeatureSheet)
	nameIndex := strings.Index(output, table.NameSheet)
	extraIndex := strings.Index(output, "EXTRA")
	assert.Less(t, featureIndex, nameIndex)
	assert.Less(t, nameIndex, extraIndex)
}

func TestFormatRunReportStatuses(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(*RunReport)
		expected string
	}{
		{"failure", func(report *RunReport) {
			report.Status = StatusFailure
			report.Error = "fetch feed: HTTP 404"
		}, "[FAIL]"},
		{"skipped", func(report *RunReport) {
			report.Status = StatusSkipped
			report.NotModified = true
		}, "[SKIP]"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			report := sampleReport()
			testCase.mutate(report)
			output := FormatRunReport(report)
			assert.Contains(t, output, testCase.expected)
			if report.Error != "" {
				assert.Contains(t, output, "error: "+report.Error)
			}
			if report.NotModified {
				assert.Contains(t, output, "not modified")
			}
		})
	}
}

func TestFormatRunReportJSON(t *testing.T) {
	output := FormatRunReportJSON(sampleReport())

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))
	assert.Equal(t, "3f1c2a9e-0000-4000-8000-000000000001", decoded["run_id"])
	assert.Equal(t, "success", decoded["status"])
	assert.Equal(t, 2048.0, decoded["source_bytes"])
	assert.NotContains(t, decoded, "error")
}

func TestOrderedSheetNames(t *testing.T) {
	names := orderedSheetNames(map[string]int{
		"ZETA":                    1,
		table.SanctionsEntrySheet: 1,
		"ALPHA":                   1,
		table.FeatureSheet:        1,
	})
	assert.Equal(t, []string{table.FeatureSheet, table.SanctionsEntrySheet, "ALPHA", "ZETA"}, names)
}

func TestFormatDocumentSummary(t *testing.T) {
	document, err := sdn.ParseFile(samplePath)
	require.NoError(t, err)

	output := FormatDocumentSummary(document, reference.Load(document))

	assert.Contains(t, output, "Date of issue: 2024-7-12")
	assert.Regexp(t, `Distinct parties\s+2`, output)
	assert.Regexp(t, `Features\s+5`, output)
	assert.Regexp(t, `Sanctions measures\s+3`, output)
	assert.Regexp(t, `FeatureType\s+4`, output)
	assert.Regexp(t, `NamePartGroup\s+4`, output)
}
