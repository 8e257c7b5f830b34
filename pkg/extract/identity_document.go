package extract

import (
	"github.com/coolbeans/sdnexport/pkg/codes"
	"github.com/coolbeans/sdnexport/pkg/reference"
	"github.com/coolbeans/sdnexport/pkg/sdn"
	"github.com/coolbeans/sdnexport/pkg/table"
)

// IDColumns are the ID sheet headers.
var IDColumns = []string{
	"FixedRef",
	"Document_Type_ID",
	"Document_Type_Name",
	"Issued_By",
	"Issuing_Country_ID",
	"Issuing_Country_Name",
	"Issue_Date",
	"Expiration_Date",
	"Value",
}

// ExtractIdentityDocuments emits one row per IDRegDocument whose identity can
// be traced to a party. Untraceable documents are dropped.
func ExtractIdentityDocuments(input *Input) table.Sheet {
	tables := input.Tables
	sheet := table.Sheet{Name: table.IDSheet, Columns: IDColumns}

	for _, idRegDocument := range input.Document.IDRegDocuments {
		fixedRef, found := input.Identities.IdentityOwner(idRegDocument.IdentityID)
		if !found {
			continue
		}

		issueDate, expirationDate := documentDates(idRegDocument.Dates, input.Options.StrictDocumentDates)

		sheet.Rows = append(sheet.Rows, []string{
			fixedRef,
			idRegDocument.DocumentTypeID,
			tables.DocumentTypes.LabelOr(idRegDocument.DocumentTypeID, reference.UnknownDocumentType),
			idRegDocument.IssuingAuthority,
			idRegDocument.IssuedByCountryID,
			tables.Countries.LabelOr(idRegDocument.IssuedByCountryID, reference.UnknownCountry),
			issueDate,
			expirationDate,
			idRegDocument.RegistrationNumber,
		})
	}

	return sheet
}

// documentDates returns the issue and expiration dates of a document. Later
// events overwrite earlier ones.
func documentDates(dates []sdn.DocumentDate, strict bool) (issueDate, expirationDate string) {
	for _, documentDate := range dates {
		period := documentDate.Period
		if period == nil {
			continue
		}

		if !strict {
			if period.Start != nil {
				issueDate = formatBoundary(period.Start)
			}
			if period.End != nil {
				expirationDate = formatBoundary(period.End)
			}
			continue
		}

		switch codes.ParseDocumentDateType(documentDate.DateTypeID) {
		case codes.DocumentDateIssue:
			if boundary := firstBoundary(period.Start, period.End); boundary != nil {
				issueDate = formatBoundary(boundary)
			}
		case codes.DocumentDateExpiration:
			if boundary := firstBoundary(period.End, period.Start); boundary != nil {
				expirationDate = formatBoundary(boundary)
			}
		}
	}
	return issueDate, expirationDate
}

func firstBoundary(boundaries ...*sdn.DateBoundary) *sdn.DateBoundary {
	for _, boundary := range boundaries {
		if boundary != nil {
			return boundary
		}
	}
	return nil
}
