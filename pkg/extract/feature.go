package extract

import (
	"github.com/coolbeans/sdnexport/pkg/codes"
	"github.com/coolbeans/sdnexport/pkg/reference"
	"github.com/coolbeans/sdnexport/pkg/sdn"
	"github.com/coolbeans/sdnexport/pkg/table"
)

// FeatureColumns are the FEATURE sheet headers.
var FeatureColumns = []string{"FixedRef", "FeatureType", "Value", "ReliabilityValue", "Comment"}

// ExtractFeatures emits one row per Feature of every party profile, using the
// feature's first version.
func ExtractFeatures(input *Input) table.Sheet {
	tables := input.Tables
	sheet := table.Sheet{Name: table.FeatureSheet, Columns: FeatureColumns}

	for _, party := range input.Document.DistinctParties {
		for _, profile := range party.Profiles {
			for _, feature := range profile.Features {
				if len(feature.Versions) == 0 {
					continue
				}
				version := feature.Versions[0]

				featureType := tables.FeatureTypes.LabelOr(feature.FeatureTypeID, reference.Unknown)
				value := featureValue(version, tables)
				if featureType == codes.FeatureTypeLocation && version.Location != nil {
					value = version.Location.LocationID
				}

				sheet.Rows = append(sheet.Rows, []string{
					party.FixedRef,
					featureType,
					value,
					tables.Reliabilities.LabelOr(version.ReliabilityID, reference.Unknown),
					version.Comment,
				})
			}
		}
	}

	return sheet
}

func featureValue(version sdn.FeatureVersion, tables *reference.Tables) string {
	detail := version.Detail
	if detail == nil {
		return ""
	}

	switch codes.ParseDetailType(detail.DetailTypeID) {
	case codes.DetailLookup:
		if detail.DetailReferenceID == "" {
			return ""
		}
		return tables.DetailReferences.LabelOr(detail.DetailReferenceID, reference.Unknown)
	case codes.DetailText:
		return detail.Text
	case codes.DetailCountry:
		return detail.CountryID
	case codes.DetailDate:
		period := detail.DatePeriod
		if period == nil {
			period = version.DatePeriod
		}
		return formatPeriod(period)
	default:
		return ""
	}
}
