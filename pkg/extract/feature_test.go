package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coolbeans/sdnexport/pkg/reference"
	"github.com/coolbeans/sdnexport/pkg/sdn"
)

func TestExtractFeaturesSample(t *testing.T) {
	sheet := ExtractFeatures(loadSampleInput(t, Options{}))

	assert.Equal(t, [][]string{
		{"100", "Title", "Director", "Reliable", ""},
		{"100", "Birthdate", "1970-1-15 to 1970-1-15", "Reliable", "circa"},
		{"100", "Location", "200", "Reliable", ""},
		{"100", "Gender", "Female", "Unknown", ""},
		{"101", "Unknown", "11091", "Reliable", ""},
	}, sheet.Rows)
}

func testTables() *reference.Tables {
	return reference.Load(&sdn.Document{
		ReferenceValueSets: sdn.ReferenceValueSets{
			DetailReferences: []sdn.ReferenceValue{{ID: "91526", Label: "Female"}},
		},
	})
}

func TestFeatureValue(t *testing.T) {
	datePeriod := &sdn.DatePeriod{
		Start: &sdn.DateBoundary{From: &sdn.DatePoint{Year: "2020", Month: "01", Day: "15"}},
	}

	testCases := []struct {
		name     string
		version  sdn.FeatureVersion
		expected string
	}{
		{
			name:     "no detail",
			version:  sdn.FeatureVersion{},
			expected: "",
		},
		{
			name:     "lookup resolved",
			version:  sdn.FeatureVersion{Detail: &sdn.VersionDetail{DetailTypeID: "1431", DetailReferenceID: "91526"}},
			expected: "Female",
		},
		{
			name:     "lookup missing from table",
			version:  sdn.FeatureVersion{Detail: &sdn.VersionDetail{DetailTypeID: "1431", DetailReferenceID: "1"}},
			expected: "Unknown",
		},
		{
			name:     "lookup without reference",
			version:  sdn.FeatureVersion{Detail: &sdn.VersionDetail{DetailTypeID: "1431"}},
			expected: "",
		},
		{
			name:     "text",
			version:  sdn.FeatureVersion{Detail: &sdn.VersionDetail{DetailTypeID: "1432", Text: "Director"}},
			expected: "Director",
		},
		{
			name:     "country is not resolved",
			version:  sdn.FeatureVersion{Detail: &sdn.VersionDetail{DetailTypeID: "1433", CountryID: "11082"}},
			expected: "11082",
		},
		{
			name:     "date inside detail",
			version:  sdn.FeatureVersion{Detail: &sdn.VersionDetail{DetailTypeID: "1430", DatePeriod: datePeriod}},
			expected: "From 2020-01-15",
		},
		{
			name:     "date on the version",
			version:  sdn.FeatureVersion{DatePeriod: datePeriod, Detail: &sdn.VersionDetail{DetailTypeID: "1430"}},
			expected: "From 2020-01-15",
		},
		{
			name:     "date without period",
			version:  sdn.FeatureVersion{Detail: &sdn.VersionDetail{DetailTypeID: "1430"}},
			expected: "",
		},
		{
			name:     "other detail type",
			version:  sdn.FeatureVersion{Detail: &sdn.VersionDetail{DetailTypeID: "1434", Text: "ignored"}},
			expected: "",
		},
	}

	tables := testTables()
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, featureValue(testCase.version, tables))
		})
	}
}

func TestExtractFeaturesLocationOverride(t *testing.T) {
	document := &sdn.Document{
		ReferenceValueSets: sdn.ReferenceValueSets{
			FeatureTypes: []sdn.ReferenceValue{{ID: "25", Label: "Location"}},
		},
		DistinctParties: []sdn.DistinctParty{{
			FixedRef: "7",
			Profiles: []sdn.Profile{{Features: []sdn.Feature{
				{FeatureTypeID: "25", Versions: []sdn.FeatureVersion{{
					Detail:   &sdn.VersionDetail{DetailTypeID: "1432", Text: "replaced"},
					Location: &sdn.VersionLocation{LocationID: "4242"},
				}}},
				{FeatureTypeID: "25", Versions: []sdn.FeatureVersion{{
					Detail: &sdn.VersionDetail{DetailTypeID: "1432", Text: "kept"},
				}}},
			}}},
		}},
	}

	sheet := ExtractFeatures(NewInput(document, Options{}))
	assert.Equal(t, [][]string{
		{"7", "Location", "4242", "Unknown", ""},
		{"7", "Location", "kept", "Unknown", ""},
	}, sheet.Rows)
}

func TestFormatPeriod(t *testing.T) {
	start := &sdn.DateBoundary{From: &sdn.DatePoint{Year: "2020", Month: "01", Day: "15"}}
	end := &sdn.DateBoundary{From: &sdn.DatePoint{Year: "2021", Month: "06", Day: "30"}}

	testCases := []struct {
		name     string
		period   *sdn.DatePeriod
		expected string
	}{
		{"start only", &sdn.DatePeriod{Start: start}, "From 2020-01-15"},
		{"end only", &sdn.DatePeriod{End: end}, "Until 2021-06-30"},
		{"both", &sdn.DatePeriod{Start: start, End: end}, "2020-01-15 to 2021-06-30"},
		{"neither", &sdn.DatePeriod{}, ""},
		{"nil", nil, ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, formatPeriod(testCase.period))
		})
	}
}
