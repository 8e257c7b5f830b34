// Package extract flattens a parsed SDN Advanced document into the five
// output sheets. Extraction is pure: it reads the document and the reference
// tables and never performs I/O.
package extract

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/sdnexport/pkg/reference"
	"github.com/coolbeans/sdnexport/pkg/sdn"
	"github.com/coolbeans/sdnexport/pkg/table"
)

// Options adjusts extraction behavior.
type Options struct {
	// StrictDocumentDates fills Issue_Date only from events tagged as issue
	// dates and Expiration_Date only from events tagged as expiration dates.
	// When false, any event's start sets Issue_Date and any event's end sets
	// Expiration_Date, whatever its tag.
	StrictDocumentDates bool
}

// Input is the read-only state shared by all extractors.
type Input struct {
	Document   *sdn.Document
	Tables     *reference.Tables
	Identities *IdentityIndex
	Options    Options
}

// NewInput loads the reference tables and identity index for a document.
func NewInput(document *sdn.Document, options Options) *Input {
	return &Input{
		Document:   document,
		Tables:     reference.Load(document),
		Identities: NewIdentityIndex(document),
		Options:    options,
	}
}

type extractor struct {
	name    string
	extract func(*Input) table.Sheet
}

var extractors = []extractor{
	{table.FeatureSheet, ExtractFeatures},
	{table.IDSheet, ExtractIdentityDocuments},
	{table.AddressSheet, ExtractAddresses},
	{table.SanctionsEntrySheet, ExtractSanctionsEntries},
	{table.NameSheet, ExtractNames},
}

// Run validates the document and produces every sheet in output order. A
// structurally invalid document yields an error and no sheets.
func Run(document *sdn.Document, options Options) ([]table.Sheet, error) {
	if err := sdn.Validate(document); err != nil {
		return nil, fmt.Errorf("document failed validation: %w", err)
	}
	return RunInput(NewInput(document, options))
}

// RunInput runs the extractors concurrently over a prepared input. Sheets are
// returned in output order regardless of completion order.
func RunInput(input *Input) ([]table.Sheet, error) {
	sheets := make([]table.Sheet, len(extractors))

	var group errgroup.Group
	for index, current := range extractors {
		group.Go(func() error {
			sheet := current.extract(input)
			if err := checkShape(sheet); err != nil {
				return fmt.Errorf("%s extractor: %w", current.name, err)
			}
			sheets[index] = sheet
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return sheets, nil
}

func checkShape(sheet table.Sheet) error {
	for rowIndex, row := range sheet.Rows {
		if len(row) != len(sheet.Columns) {
			return fmt.Errorf("sheet %s row %d has %d cells, want %d",
				sheet.Name, rowIndex+1, len(row), len(sheet.Columns))
		}
	}
	return nil
}
