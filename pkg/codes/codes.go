// Package codes defines the closed sets of numeric codes that the SDN Advanced
// feed uses to drive layout decisions. Label tables that are published inside
// the document live in package reference; the codes here change the shape of
// the output, so they are fixed at compile time with an explicit fallback.
package codes

// DetailType selects how a feature version's detail value is rendered.
type DetailType int

const (
	// DetailOther is any detail type this tool does not render.
	DetailOther DetailType = iota
	// DetailDate is a date period (code 1430).
	DetailDate
	// DetailLookup is a detail-reference lookup (code 1431).
	DetailLookup
	// DetailText is free text (code 1432).
	DetailText
	// DetailCountry is a country code (code 1433).
	DetailCountry
)

// ParseDetailType converts a DetailTypeID attribute to a DetailType.
func ParseDetailType(code string) DetailType {
	switch code {
	case "1430":
		return DetailDate
	case "1431":
		return DetailLookup
	case "1432":
		return DetailText
	case "1433":
		return DetailCountry
	default:
		return DetailOther
	}
}

// String returns the feed's own name for the detail type.
func (detailType DetailType) String() string {
	switch detailType {
	case DetailDate:
		return "DATE"
	case DetailLookup:
		return "LOOKUP"
	case DetailText:
		return "TEXT"
	case DetailCountry:
		return "COUNTRY"
	default:
		return "OTHER"
	}
}

// DocumentDateType tags a dated event on an identity document.
type DocumentDateType int

const (
	// DocumentDateOther is any event type other than issue or expiration.
	DocumentDateOther DocumentDateType = iota
	// DocumentDateIssue is the issue date (code 1480).
	DocumentDateIssue
	// DocumentDateExpiration is the expiration date (code 1481).
	DocumentDateExpiration
)

// ParseDocumentDateType converts an IDRegDocDateTypeID attribute.
func ParseDocumentDateType(code string) DocumentDateType {
	switch code {
	case "1480":
		return DocumentDateIssue
	case "1481":
		return DocumentDateExpiration
	default:
		return DocumentDateOther
	}
}

// String returns a human-readable name for the date type.
func (dateType DocumentDateType) String() string {
	switch dateType {
	case DocumentDateIssue:
		return "issue"
	case DocumentDateExpiration:
		return "expiration"
	default:
		return "other"
	}
}

// LocationPartType identifies which address field a location part fills.
type LocationPartType int

const (
	// LocationPartOther is a part type with no address column; it is ignored.
	LocationPartOther LocationPartType = iota
	// LocationPartUnknown is the feed's "unknown" part (code 1).
	LocationPartUnknown
	// LocationPartRegion is code 1450.
	LocationPartRegion
	// LocationPartAddress1 is code 1451.
	LocationPartAddress1
	// LocationPartAddress2 is code 1452.
	LocationPartAddress2
	// LocationPartAddress3 is code 1453.
	LocationPartAddress3
	// LocationPartCity is code 1454.
	LocationPartCity
	// LocationPartStateProvince is code 1455.
	LocationPartStateProvince
	// LocationPartPostalCode is code 1456.
	LocationPartPostalCode
)

// ParseLocationPartType converts a LocPartTypeID attribute.
func ParseLocationPartType(code string) LocationPartType {
	switch code {
	case "1":
		return LocationPartUnknown
	case "1450":
		return LocationPartRegion
	case "1451":
		return LocationPartAddress1
	case "1452":
		return LocationPartAddress2
	case "1453":
		return LocationPartAddress3
	case "1454":
		return LocationPartCity
	case "1455":
		return LocationPartStateProvince
	case "1456":
		return LocationPartPostalCode
	default:
		return LocationPartOther
	}
}

// String returns the ADDRESS column the part type fills.
func (partType LocationPartType) String() string {
	switch partType {
	case LocationPartUnknown:
		return "Unknown"
	case LocationPartRegion:
		return "Region"
	case LocationPartAddress1:
		return "Address 1"
	case LocationPartAddress2:
		return "Address 2"
	case LocationPartAddress3:
		return "Address 3"
	case LocationPartCity:
		return "City"
	case LocationPartStateProvince:
		return "State/Province"
	case LocationPartPostalCode:
		return "Postal Code"
	default:
		return "Other"
	}
}

// NamePartRole is the semantic role of a documented name part.
type NamePartRole int

const (
	// NamePartOther is any name-part type without a rendering slot.
	NamePartOther NamePartRole = iota
	// NamePartLast is code 1520.
	NamePartLast
	// NamePartFirst is code 1521.
	NamePartFirst
	// NamePartMiddle is code 1522.
	NamePartMiddle
	// NamePartMaiden is code 1523.
	NamePartMaiden
	// NamePartAircraft is code 1524.
	NamePartAircraft
	// NamePartEntity is code 1525.
	NamePartEntity
	// NamePartVessel is code 1526.
	NamePartVessel
	// NamePartNickname is code 1528.
	NamePartNickname
	// NamePartPatronymic is code 91708.
	NamePartPatronymic
	// NamePartMatronymic is code 91709.
	NamePartMatronymic
)

// ParseNamePartRole converts a NamePartTypeID to a role.
func ParseNamePartRole(code string) NamePartRole {
	switch code {
	case "1520":
		return NamePartLast
	case "1521":
		return NamePartFirst
	case "1522":
		return NamePartMiddle
	case "1523":
		return NamePartMaiden
	case "1524":
		return NamePartAircraft
	case "1525":
		return NamePartEntity
	case "1526":
		return NamePartVessel
	case "1528":
		return NamePartNickname
	case "91708":
		return NamePartPatronymic
	case "91709":
		return NamePartMatronymic
	default:
		return NamePartOther
	}
}

// String returns a human-readable role name.
func (role NamePartRole) String() string {
	switch role {
	case NamePartLast:
		return "Last Name"
	case NamePartFirst:
		return "First Name"
	case NamePartMiddle:
		return "Middle Name"
	case NamePartMaiden:
		return "Maiden Name"
	case NamePartAircraft:
		return "Aircraft Name"
	case NamePartEntity:
		return "Entity Name"
	case NamePartVessel:
		return "Vessel Name"
	case NamePartNickname:
		return "Nickname"
	case NamePartPatronymic:
		return "Patronymic"
	case NamePartMatronymic:
		return "Matronymic"
	default:
		return "Other"
	}
}

// PartySubType is the profile designation.
type PartySubType int

const (
	// PartySubTypeUnknown is any subtype outside the four designations.
	PartySubTypeUnknown PartySubType = iota
	// PartySubTypeVessel is code 1.
	PartySubTypeVessel
	// PartySubTypeAircraft is code 2.
	PartySubTypeAircraft
	// PartySubTypeBusiness is code 3.
	PartySubTypeBusiness
	// PartySubTypeIndividual is code 4.
	PartySubTypeIndividual
)

// ParsePartySubType converts a PartySubTypeID attribute.
func ParsePartySubType(code string) PartySubType {
	switch code {
	case "1":
		return PartySubTypeVessel
	case "2":
		return PartySubTypeAircraft
	case "3":
		return PartySubTypeBusiness
	case "4":
		return PartySubTypeIndividual
	default:
		return PartySubTypeUnknown
	}
}

// Designation returns the NAME sheet label for the subtype.
func (subType PartySubType) Designation() string {
	switch subType {
	case PartySubTypeVessel:
		return "Vessel"
	case PartySubTypeAircraft:
		return "Aircraft"
	case PartySubTypeBusiness:
		return "Business"
	case PartySubTypeIndividual:
		return "Individual"
	default:
		return "Unknown"
	}
}

// AreaCodeUndetermined is the area code OFAC uses for an undetermined region.
const AreaCodeUndetermined = "11291"

// FeatureTypeLocation is the feature-type label whose value is a location ID.
const FeatureTypeLocation = "Location"
