package extract

import (
	"github.com/coolbeans/sdnexport/pkg/codes"
	"github.com/coolbeans/sdnexport/pkg/reference"
	"github.com/coolbeans/sdnexport/pkg/sdn"
	"github.com/coolbeans/sdnexport/pkg/table"
)

// AddressColumns are the ADDRESS sheet headers.
var AddressColumns = []string{
	"ID",
	"FixedRef",
	"AreaCodeID",
	"Country",
	"CountryRelevanceID",
	"FeatureVersionID",
	"Unknown",
	"Region",
	"Address 1",
	"Address 2",
	"Address 3",
	"City",
	"State/Province",
	"Postal Code",
	"Script Type",
}

const (
	latinScript        = "Latin"
	undeterminedRegion = "undetermined"
)

// knownScripts are the non-Latin scripts whose rows, when present, come first
// and in this order.
var knownScripts = []string{
	"Chinese Simplified",
	"Chinese Traditional",
	"Cyrillic",
	"Arabic",
	"Japanese",
}

// addressFields holds one value per location part type, indexed from
// codes.LocationPartUnknown through codes.LocationPartPostalCode.
type addressFields [codes.LocationPartPostalCode]string

func (fields *addressFields) set(partType codes.LocationPartType, value string) {
	if partType == codes.LocationPartOther {
		return
	}
	fields[partType-codes.LocationPartUnknown] = value
}

func (fields *addressFields) isEmpty() bool {
	for _, value := range fields {
		if value != "" {
			return false
		}
	}
	return true
}

// scriptBuckets collects part values per script name, keeping first-seen order.
type scriptBuckets struct {
	names  []string
	fields map[string]*addressFields
}

func newScriptBuckets() *scriptBuckets {
	buckets := &scriptBuckets{fields: make(map[string]*addressFields, len(knownScripts))}
	for _, name := range knownScripts {
		buckets.bucket(name)
	}
	return buckets
}

func (buckets *scriptBuckets) bucket(name string) *addressFields {
	if fields, found := buckets.fields[name]; found {
		return fields
	}
	fields := &addressFields{}
	buckets.names = append(buckets.names, name)
	buckets.fields[name] = fields
	return fields
}

// ExtractAddresses emits a base row per Location plus one row per script with
// at least one non-Latin part value. The base row of the first Location with a
// given ID is tagged "Latin".
func ExtractAddresses(input *Input) table.Sheet {
	sheet := table.Sheet{Name: table.AddressSheet, Columns: AddressColumns}
	seenLocations := make(map[string]bool, len(input.Document.Locations))

	for _, location := range input.Document.Locations {
		areaCode := ""
		if location.AreaCode != nil {
			areaCode = location.AreaCode.AreaCodeID
		}
		country := locationCountry(location, areaCode, input.Tables)
		fixedRef := locationOwner(location, input.Identities)

		scriptType := ""
		if !seenLocations[location.ID] {
			scriptType = latinScript
			seenLocations[location.ID] = true
		}

		var base addressFields
		buckets := newScriptBuckets()
		for _, part := range location.Parts {
			partType := codes.ParseLocationPartType(part.LocPartTypeID)
			for _, partValue := range part.Values {
				if partValue.Comment == "" {
					base.set(partType, partValue.Value)
					continue
				}
				buckets.bucket(partValue.Comment).set(partType, partValue.Value)
			}
		}

		sheet.Rows = append(sheet.Rows, addressRow(location.ID, fixedRef, areaCode, country, base, scriptType))
		for _, name := range buckets.names {
			fields := buckets.fields[name]
			if fields.isEmpty() {
				continue
			}
			sheet.Rows = append(sheet.Rows, addressRow(location.ID, fixedRef, areaCode, country, *fields, name))
		}
	}

	return sheet
}

func locationCountry(location sdn.Location, areaCode string, tables *reference.Tables) string {
	countryID := ""
	if location.Country != nil {
		countryID = location.Country.CountryID
	}

	switch {
	case countryID == "" && areaCode == codes.AreaCodeUndetermined:
		return undeterminedRegion
	case countryID == "":
		return ""
	default:
		return tables.Countries.LabelOr(countryID, reference.UnknownCountry)
	}
}

func locationOwner(location sdn.Location, identities *IdentityIndex) string {
	if len(location.IDRegDocumentReferences) == 0 {
		return ""
	}
	fixedRef, _ := identities.DocumentOwner(location.IDRegDocumentReferences[0].IDRegDocumentID)
	return fixedRef
}

func addressRow(locationID, fixedRef, areaCode, country string, fields addressFields, scriptType string) []string {
	row := make([]string, 0, len(AddressColumns))
	row = append(row, locationID, fixedRef, areaCode, country, "", "")
	row = append(row, fields[:]...)
	return append(row, scriptType)
}
