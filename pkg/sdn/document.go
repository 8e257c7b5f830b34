// Package sdn decodes the OFAC "SDN Advanced" XML feed into Go structs.
//
// The feed is a single <Sanctions> document:
//
//	<Sanctions>
//	  <DateOfIssue/>
//	  <ReferenceValueSets/>   code -> label tables (countries, lists, ...)
//	  <Locations/>            addresses, possibly in several scripts
//	  <IDRegDocuments/>       identity documents, keyed to an Identity
//	  <DistinctParties/>      Party -> Profile -> Identity -> Alias -> DocumentedName
//	  <SanctionsEntries/>     list membership and measures
//	</Sanctions>
//
// Only the elements needed for the tabular export are modelled. Element names
// are matched without regard to namespace, so both the treasury.gov and the
// sanctionslistservice.ofac.treas.gov namespaces decode.
package sdn

import "encoding/xml"

// Document represents the top-level <Sanctions> element.
type Document struct {
	XMLName            xml.Name           `xml:"Sanctions"`
	DateOfIssue        DatePoint          `xml:"DateOfIssue"`
	ReferenceValueSets ReferenceValueSets `xml:"ReferenceValueSets"`
	Locations          []Location         `xml:"Locations>Location"`
	IDRegDocuments     []IDRegDocument    `xml:"IDRegDocuments>IDRegDocument"`
	DistinctParties    []DistinctParty    `xml:"DistinctParties>DistinctParty"`
	SanctionsEntries   []SanctionsEntry   `xml:"SanctionsEntries>SanctionsEntry"`
}

// --- Reference values ---

// ReferenceValueSets holds the value lists the rest of the document refers to by ID.
type ReferenceValueSets struct {
	AliasTypes       []ReferenceValue `xml:"AliasTypeValues>AliasType"`
	Countries        []ReferenceValue `xml:"CountryValues>Country"`
	DetailReferences []ReferenceValue `xml:"DetailReferenceValues>DetailReference"`
	FeatureTypes     []ReferenceValue `xml:"FeatureTypeValues>FeatureType"`
	IDRegDocTypes    []ReferenceValue `xml:"IDRegDocTypeValues>IDRegDocType"`
	Lists            []ReferenceValue `xml:"ListValues>List"`
	PartySubTypes    []ReferenceValue `xml:"PartySubTypeValues>PartySubType"`
	Reliabilities    []ReferenceValue `xml:"ReliabilityValues>Reliability"`
	SanctionsTypes   []ReferenceValue `xml:"SanctionsTypeValues>SanctionsType"`
	Scripts          []ReferenceValue `xml:"ScriptValues>Script"`
}

// ReferenceValue is one <X ID="...">label</X> entry of a value list.
type ReferenceValue struct {
	ID    string `xml:"ID,attr"`
	Label string `xml:",chardata"`
}

// --- Dates ---

// DatePoint is a calendar date with the feed's unpadded Year/Month/Day text.
type DatePoint struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
	Day   string `xml:"Day"`
}

// IsZero reports whether no part of the date is present.
func (point DatePoint) IsZero() bool {
	return point.Year == "" && point.Month == "" && point.Day == ""
}

// DateBoundary is the <Start> or <End> of a period. The feed normally wraps
// the date in <From>/<To>; a bare Year/Month/Day is accepted as well.
type DateBoundary struct {
	From  *DatePoint `xml:"From"`
	To    *DatePoint `xml:"To"`
	Year  string     `xml:"Year"`
	Month string     `xml:"Month"`
	Day   string     `xml:"Day"`
}

// Point returns the first date found in document order: <From>, otherwise the
// boundary's own fields, otherwise <To>.
func (boundary *DateBoundary) Point() DatePoint {
	if boundary.From != nil {
		return *boundary.From
	}
	direct := DatePoint{Year: boundary.Year, Month: boundary.Month, Day: boundary.Day}
	if direct.IsZero() && boundary.To != nil {
		return *boundary.To
	}
	return direct
}

// DatePeriod is a <DatePeriod> with optional start and end.
type DatePeriod struct {
	Start *DateBoundary `xml:"Start"`
	End   *DateBoundary `xml:"End"`
}

// --- Locations ---

// Location represents a <Location> address record.
type Location struct {
	ID                       string                    `xml:"ID,attr"`
	AreaCode                 *LocationAreaCode         `xml:"LocationAreaCode"`
	Country                  *LocationCountry          `xml:"LocationCountry"`
	Parts                    []LocationPart            `xml:"LocationPart"`
	FeatureVersionReferences []FeatureVersionReference `xml:"FeatureVersionReference"`
	IDRegDocumentReferences  []IDRegDocumentReference  `xml:"IDRegDocumentReference"`
}

// LocationAreaCode carries the location's area code.
type LocationAreaCode struct {
	AreaCodeID string `xml:"AreaCodeID,attr"`
}

// LocationCountry carries the location's country code.
type LocationCountry struct {
	CountryID string `xml:"CountryID,attr"`
}

// LocationPart groups the values of one part type (city, postal code, ...).
type LocationPart struct {
	LocPartTypeID string              `xml:"LocPartTypeID,attr"`
	Values        []LocationPartValue `xml:"LocationPartValue"`
}

// LocationPartValue is one rendering of a part. A non-empty Comment names the
// script of a non-Latin rendering.
type LocationPartValue struct {
	Primary string `xml:"Primary,attr"`
	Comment string `xml:"Comment"`
	Value   string `xml:"Value"`
}

// FeatureVersionReference links a location to the feature version that uses it.
type FeatureVersionReference struct {
	FeatureVersionID string `xml:"FeatureVersionID,attr"`
}

// IDRegDocumentReference links a location to an identity document.
type IDRegDocumentReference struct {
	IDRegDocumentID string `xml:"IDRegDocumentID,attr"`
}

// --- Identity documents ---

// IDRegDocument represents an <IDRegDocument> (passport, registration, ...).
type IDRegDocument struct {
	ID                 string         `xml:"ID,attr"`
	DocumentTypeID     string         `xml:"IDRegDocTypeID,attr"`
	IdentityID         string         `xml:"IdentityID,attr"`
	IssuedByCountryID  string         `xml:"IssuedBy-CountryID,attr"`
	IssuingAuthority   string         `xml:"IssuingAuthority"`
	RegistrationNumber string         `xml:"IDRegistrationNo"`
	Dates              []DocumentDate `xml:"DocumentDate"`
}

// DocumentDate is a dated event (issue, expiration) on an identity document.
type DocumentDate struct {
	DateTypeID string      `xml:"IDRegDocDateTypeID,attr"`
	Period     *DatePeriod `xml:"DatePeriod"`
}

// --- Parties ---

// DistinctParty represents a sanctioned individual or entity.
type DistinctParty struct {
	FixedRef string    `xml:"FixedRef,attr"`
	Comment  string    `xml:"Comment"`
	Profiles []Profile `xml:"Profile"`
}

// Profile is a typed facet of a party.
type Profile struct {
	ID             string     `xml:"ID,attr"`
	PartySubTypeID string     `xml:"PartySubTypeID,attr"`
	Identities     []Identity `xml:"Identity"`
	Features       []Feature  `xml:"Feature"`
}

// Identity is a named identity within a profile.
type Identity struct {
	ID             string          `xml:"ID,attr"`
	FixedRef       string          `xml:"FixedRef,attr"`
	Primary        string          `xml:"Primary,attr"`
	Aliases        []Alias         `xml:"Alias"`
	NamePartGroups []NamePartGroup `xml:"NamePartGroups>MasterNamePartGroup>NamePartGroup"`
}

// NamePartGroup maps a group ID used by name parts to a name-part type.
type NamePartGroup struct {
	ID             string `xml:"ID,attr"`
	NamePartTypeID string `xml:"NamePartTypeID,attr"`
}

// Alias is a name variant of an identity.
type Alias struct {
	FixedRef        string           `xml:"FixedRef,attr"`
	AliasTypeID     string           `xml:"AliasTypeID,attr"`
	Primary         string           `xml:"Primary,attr"`
	LowQuality      string           `xml:"LowQuality,attr"`
	DocumentedNames []DocumentedName `xml:"DocumentedName"`
}

// DocumentedName is an ordered list of role-tagged name parts.
type DocumentedName struct {
	ID    string          `xml:"ID,attr"`
	Parts []NamePartValue `xml:"DocumentedNamePart>NamePartValue"`
}

// NamePartValue is one part of a documented name.
type NamePartValue struct {
	NamePartGroupID string `xml:"NamePartGroupID,attr"`
	ScriptID        string `xml:"ScriptID,attr"`
	Acronym         string `xml:"Acronym,attr"`
	Text            string `xml:",chardata"`
}

// --- Features ---

// Feature is an attribute record (birthdate, title, location, ...) of a profile.
type Feature struct {
	ID            string           `xml:"ID,attr"`
	FeatureTypeID string           `xml:"FeatureTypeID,attr"`
	Versions      []FeatureVersion `xml:"FeatureVersion"`
}

// FeatureVersion is a version of a feature's value.
type FeatureVersion struct {
	ID            string           `xml:"ID,attr"`
	ReliabilityID string           `xml:"ReliabilityID,attr"`
	Comment       string           `xml:"Comment"`
	DatePeriod    *DatePeriod      `xml:"DatePeriod"`
	Detail        *VersionDetail   `xml:"VersionDetail"`
	Location      *VersionLocation `xml:"VersionLocation"`
}

// VersionDetail is the typed value of a feature version.
type VersionDetail struct {
	DetailTypeID      string      `xml:"DetailTypeID,attr"`
	DetailReferenceID string      `xml:"DetailReferenceID,attr"`
	CountryID         string      `xml:"CountryID,attr"`
	DatePeriod        *DatePeriod `xml:"DatePeriod"`
	Text              string      `xml:",chardata"`
}

// VersionLocation points a feature version at a location.
type VersionLocation struct {
	LocationID string `xml:"LocationID,attr"`
}

// --- Sanctions entries ---

// SanctionsEntry records a profile's membership of a sanctions list.
type SanctionsEntry struct {
	ID        string             `xml:"ID,attr"`
	ProfileID string             `xml:"ProfileID,attr"`
	ListID    string             `xml:"ListID,attr"`
	Measures  []SanctionsMeasure `xml:"SanctionsMeasure"`
}

// SanctionsMeasure is one measure imposed by an entry.
type SanctionsMeasure struct {
	ID              string `xml:"ID,attr"`
	SanctionsTypeID string `xml:"SanctionsTypeID,attr"`
	Comment         string `xml:"Comment"`
}
