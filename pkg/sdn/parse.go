package sdn

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// ParseDocument decodes an SDN Advanced document and checks that every
// identifying attribute the export depends on is present. A document that
// decodes but fails the check is returned together with the error, so callers
// can still inspect it.
func ParseDocument(reader io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(reader)
	decoder.Strict = false

	document := &Document{}
	if err := decoder.Decode(document); err != nil {
		return nil, fmt.Errorf("failed to parse SDN XML: %w", err)
	}

	if err := Validate(document); err != nil {
		return document, err
	}

	return document, nil
}

// ParseFile opens path and parses it with ParseDocument.
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return ParseDocument(file)
}

// Counts summarizes the size of a parsed document.
type Counts struct {
	Parties           int
	Profiles          int
	Identities        int
	Aliases           int
	DocumentedNames   int
	Features          int
	Locations         int
	IDRegDocuments    int
	SanctionsEntries  int
	SanctionsMeasures int
}

// Count walks the document once and tallies its entities.
func (document *Document) Count() Counts {
	counts := Counts{
		Parties:          len(document.DistinctParties),
		Locations:        len(document.Locations),
		IDRegDocuments:   len(document.IDRegDocuments),
		SanctionsEntries: len(document.SanctionsEntries),
	}

	for _, party := range document.DistinctParties {
		counts.Profiles += len(party.Profiles)
		for _, profile := range party.Profiles {
			counts.Features += len(profile.Features)
			counts.Identities += len(profile.Identities)
			for _, identity := range profile.Identities {
				counts.Aliases += len(identity.Aliases)
				for _, alias := range identity.Aliases {
					counts.DocumentedNames += len(alias.DocumentedNames)
				}
			}
		}
	}

	for _, entry := range document.SanctionsEntries {
		counts.SanctionsMeasures += len(entry.Measures)
	}

	return counts
}
