// Package reference builds the code-to-label tables published inside an SDN
// Advanced document. Every lookup takes an explicit default, so a missing code
// degrades to a documented label instead of failing.
package reference

import "github.com/coolbeans/sdnexport/pkg/sdn"

// Labels substituted when a code is not found in its table.
const (
	Unknown             = "Unknown"
	UnknownCountry      = "Unknown Country"
	UnknownDocumentType = "Unknown Document Type"
	UnknownList         = "Unknown List"
	UnknownType         = "Unknown Type"
)

// Table maps a code to its label. The zero value is an empty table.
type Table struct {
	labels map[string]string
}

// NewTable builds a table from reference values. A repeated ID keeps the last label.
func NewTable(values []sdn.ReferenceValue) Table {
	labels := make(map[string]string, len(values))
	for _, value := range values {
		labels[value.ID] = value.Label
	}
	return Table{labels: labels}
}

// Lookup returns the label for code and whether it was found.
func (table Table) Lookup(code string) (string, bool) {
	label, found := table.labels[code]
	return label, found
}

// LabelOr returns the label for code, or fallback when the code is absent.
func (table Table) LabelOr(code, fallback string) string {
	if label, found := table.labels[code]; found {
		return label
	}
	return fallback
}

// Len returns the number of codes in the table.
func (table Table) Len() int {
	return len(table.labels)
}

// Tables holds every reference table the extractors need.
type Tables struct {
	AliasTypes       Table
	Countries        Table
	DetailReferences Table
	FeatureTypes     Table
	DocumentTypes    Table
	Lists            Table
	PartySubTypes    Table
	Reliabilities    Table
	SanctionsTypes   Table
	Scripts          Table
	// NamePartTypes maps a NamePartGroup ID to its NamePartTypeID.
	NamePartTypes    Table
}

// Load builds all tables from a parsed document. Tables are never modified afterwards.
func Load(document *sdn.Document) *Tables {
	valueSets := document.ReferenceValueSets

	return &Tables{
		AliasTypes:       NewTable(valueSets.AliasTypes),
		Countries:        NewTable(valueSets.Countries),
		DetailReferences: NewTable(valueSets.DetailReferences),
		FeatureTypes:     NewTable(valueSets.FeatureTypes),
		DocumentTypes:    NewTable(valueSets.IDRegDocTypes),
		Lists:            NewTable(valueSets.Lists),
		PartySubTypes:    NewTable(valueSets.PartySubTypes),
		Reliabilities:    NewTable(valueSets.Reliabilities),
		SanctionsTypes:   NewTable(valueSets.SanctionsTypes),
		Scripts:          NewTable(valueSets.Scripts),
		NamePartTypes:    loadNamePartTypes(document),
	}
}

func loadNamePartTypes(document *sdn.Document) Table {
	labels := make(map[string]string)
	for _, party := range document.DistinctParties {
		for _, profile := range party.Profiles {
			for _, identity := range profile.Identities {
				for _, group := range identity.NamePartGroups {
					labels[group.ID] = group.NamePartTypeID
				}
			}
		}
	}
	return Table{labels: labels}
}

// Sizes reports the number of entries per table, keyed by a display name.
func (tables *Tables) Sizes() map[string]int {
	return map[string]int{
		"AliasType":       tables.AliasTypes.Len(),
		"Country":         tables.Countries.Len(),
		"DetailReference": tables.DetailReferences.Len(),
		"FeatureType":     tables.FeatureTypes.Len(),
		"IDRegDocType":    tables.DocumentTypes.Len(),
		"List":            tables.Lists.Len(),
		"NamePartGroup":   tables.NamePartTypes.Len(),
		"PartySubType":    tables.PartySubTypes.Len(),
		"Reliability":     tables.Reliabilities.Len(),
		"SanctionsType":   tables.SanctionsTypes.Len(),
		"Script":          tables.Scripts.Len(),
	}
}
