package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/sdnexport/pkg/sdn"
	"github.com/coolbeans/sdnexport/pkg/table"
)

func TestExtractAddressesSample(t *testing.T) {
	sheet := ExtractAddresses(loadSampleInput(t, Options{}))

	assert.Equal(t, [][]string{
		{"200", "100", "", "France", "", "", "", "", "1 Rue de Rivoli", "", "", "Paris", "", "", "Latin"},
		{"200", "100", "", "France", "", "", "", "", "1 Рю де Риволи", "", "", "Париж", "", "", "Cyrillic"},
		{"201", "", "11291", "undetermined", "", "", "", "", "", "", "", "", "", "", "Latin"},
	}, sheet.Rows)
}

func partValue(comment, value string) sdn.LocationPartValue {
	return sdn.LocationPartValue{Comment: comment, Value: value}
}

func TestExtractAddressesScripts(t *testing.T) {
	document := &sdn.Document{
		Locations: []sdn.Location{
			{
				ID: "1",
				Parts: []sdn.LocationPart{
					{LocPartTypeID: "1454", Values: []sdn.LocationPartValue{
						partValue("", "Beijing"),
						partValue("Korean", "베이징"),
						partValue("Arabic", "بكين"),
						partValue("Chinese Simplified", "北京"),
					}},
					{LocPartTypeID: "1456", Values: []sdn.LocationPartValue{partValue("", "100000")}},
					{LocPartTypeID: "9999", Values: []sdn.LocationPartValue{
						partValue("", "ignored"),
						partValue("Greek", "ignored"),
					}},
				},
			},
			{ID: "1"},
		},
	}

	sheet := ExtractAddresses(NewInput(document, Options{}))
	require.Len(t, sheet.Rows, 5)

	cities := sheet.Column("City")
	scripts := sheet.Column("Script Type")
	assert.Equal(t, []string{"Beijing", "北京", "بكين", "베이징", ""}, cities)
	assert.Equal(t, []string{"Latin", "Chinese Simplified", "Arabic", "Korean", ""}, scripts)
	assert.Equal(t, []string{"100000", "", "", "", ""}, sheet.Column("Postal Code"))
}

// Every Location ID has exactly one Latin row; other rows come from commented
// part values.
func TestExtractAddressesOneLatinRowPerLocation(t *testing.T) {
	input := loadSampleInput(t, Options{})
	sheet := ExtractAddresses(input)

	latinRows := make(map[string]int)
	for rowIndex := range sheet.Rows {
		record := sheet.Record(rowIndex)
		if record["Script Type"] == latinScript {
			latinRows[record["ID"]]++
		}
	}
	for _, location := range input.Document.Locations {
		assert.Equal(t, 1, latinRows[location.ID], location.ID)
	}
}

func TestLocationCountry(t *testing.T) {
	tables := loadSampleInput(t, Options{}).Tables

	testCases := []struct {
		name      string
		areaCode  string
		countryID string
		expected  string
	}{
		{"undetermined area without country", "11291", "", "undetermined"},
		{"undetermined area with country", "11291", "11082", "France"},
		{"country resolved", "", "11091", "Russia"},
		{"country unmapped", "", "1", "Unknown Country"},
		{"no country", "", "", ""},
		{"other area without country", "11290", "", ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			location := sdn.Location{ID: "1"}
			if testCase.countryID != "" {
				location.Country = &sdn.LocationCountry{CountryID: testCase.countryID}
			}
			assert.Equal(t, testCase.expected, locationCountry(location, testCase.areaCode, tables))
		})
	}
}

func TestExtractAddressesOwner(t *testing.T) {
	document := &sdn.Document{
		DistinctParties: []sdn.DistinctParty{{
			FixedRef: "100",
			Profiles: []sdn.Profile{{Identities: []sdn.Identity{{ID: "110"}}}},
		}},
		IDRegDocuments: []sdn.IDRegDocument{
			{ID: "400", IdentityID: "110"},
			{ID: "401", IdentityID: "999"},
		},
		Locations: []sdn.Location{
			{ID: "1", IDRegDocumentReferences: []sdn.IDRegDocumentReference{{IDRegDocumentID: "400"}}},
			{ID: "2", IDRegDocumentReferences: []sdn.IDRegDocumentReference{{IDRegDocumentID: "401"}}},
			{ID: "3", IDRegDocumentReferences: []sdn.IDRegDocumentReference{{IDRegDocumentID: "110"}}},
			{ID: "4"},
		},
	}

	sheet := ExtractAddresses(NewInput(document, Options{}))
	assert.Equal(t, []string{"100", "", "100", ""}, sheet.Column("FixedRef"))
	assert.Equal(t, table.AddressSheet, sheet.Name)
}
