package sdn

import (
	"errors"
	"fmt"
)

// ErrStructural is matched by every StructuralError.
var ErrStructural = errors.New("structural violation")

// StructuralError reports a required identifying attribute or child element
// that is missing from the document.
type StructuralError struct {
	// Path locates the offending element, e.g. "DistinctParties/DistinctParty[3]".
	Path string
	// Element is the local name of the offending element.
	Element string
	// Attribute is the missing attribute or child element.
	Attribute string
}

func (structuralError *StructuralError) Error() string {
	return fmt.Sprintf("%s: <%s> at %s is missing required %s",
		ErrStructural, structuralError.Element, structuralError.Path, structuralError.Attribute)
}

// Is makes errors.Is(err, ErrStructural) true for any StructuralError.
func (structuralError *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

type validator struct {
	violations []error
}

func (v *validator) require(value, path, element, attribute string) {
	if value == "" {
		v.fail(path, element, attribute)
	}
}

func (v *validator) fail(path, element, attribute string) {
	v.violations = append(v.violations, &StructuralError{
		Path:      path,
		Element:   element,
		Attribute: attribute,
	})
}

// Validate reports every missing identifying attribute in the document.
// Violations are joined with errors.Join; nil means the document is usable.
func Validate(document *Document) error {
	v := &validator{}

	for partyIndex, party := range document.DistinctParties {
		partyPath := fmt.Sprintf("DistinctParties/DistinctParty[%d]", partyIndex+1)
		v.require(party.FixedRef, partyPath, "DistinctParty", "@FixedRef")

		for profileIndex, profile := range party.Profiles {
			profilePath := fmt.Sprintf("%s/Profile[%d]", partyPath, profileIndex+1)

			for identityIndex, identity := range profile.Identities {
				identityPath := fmt.Sprintf("%s/Identity[%d]", profilePath, identityIndex+1)
				v.require(identity.ID, identityPath, "Identity", "@ID")
				validateAliases(v, identityPath, identity.Aliases)
			}

			for featureIndex, feature := range profile.Features {
				featurePath := fmt.Sprintf("%s/Feature[%d]", profilePath, featureIndex+1)
				v.require(feature.FeatureTypeID, featurePath, "Feature", "@FeatureTypeID")
				if len(feature.Versions) == 0 {
					v.fail(featurePath, "Feature", "<FeatureVersion>")
				}
			}
		}
	}

	for documentIndex, idRegDocument := range document.IDRegDocuments {
		documentPath := fmt.Sprintf("IDRegDocuments/IDRegDocument[%d]", documentIndex+1)
		v.require(idRegDocument.IdentityID, documentPath, "IDRegDocument", "@IdentityID")
	}

	for locationIndex, location := range document.Locations {
		locationPath := fmt.Sprintf("Locations/Location[%d]", locationIndex+1)
		v.require(location.ID, locationPath, "Location", "@ID")
		for partIndex, part := range location.Parts {
			partPath := fmt.Sprintf("%s/LocationPart[%d]", locationPath, partIndex+1)
			v.require(part.LocPartTypeID, partPath, "LocationPart", "@LocPartTypeID")
		}
	}

	for entryIndex, entry := range document.SanctionsEntries {
		entryPath := fmt.Sprintf("SanctionsEntries/SanctionsEntry[%d]", entryIndex+1)
		v.require(entry.ID, entryPath, "SanctionsEntry", "@ID")
	}

	return errors.Join(v.violations...)
}

func validateAliases(v *validator, identityPath string, aliases []Alias) {
	for aliasIndex, alias := range aliases {
		aliasPath := fmt.Sprintf("%s/Alias[%d]", identityPath, aliasIndex+1)
		for nameIndex, documentedName := range alias.DocumentedNames {
			namePath := fmt.Sprintf("%s/DocumentedName[%d]", aliasPath, nameIndex+1)
			v.require(documentedName.ID, namePath, "DocumentedName", "@ID")
			for partIndex, part := range documentedName.Parts {
				partPath := fmt.Sprintf("%s/NamePartValue[%d]", namePath, partIndex+1)
				v.require(part.NamePartGroupID, partPath, "NamePartValue", "@NamePartGroupID")
			}
		}
	}
}
