package extract

import "github.com/coolbeans/sdnexport/pkg/sdn"

// IdentityIndex resolves identities and identity documents to the FixedRef of
// the party that owns them. It is built once and never modified.
type IdentityIndex struct {
	owners             map[string]string
	documentIdentities map[string]string
}

// NewIdentityIndex indexes every Identity under every party. When an identity
// ID appears more than once, the last party wins.
func NewIdentityIndex(document *sdn.Document) *IdentityIndex {
	index := &IdentityIndex{
		owners:             make(map[string]string),
		documentIdentities: make(map[string]string, len(document.IDRegDocuments)),
	}

	for _, party := range document.DistinctParties {
		for _, profile := range party.Profiles {
			for _, identity := range profile.Identities {
				index.owners[identity.ID] = party.FixedRef
			}
		}
	}

	for _, idRegDocument := range document.IDRegDocuments {
		if idRegDocument.ID != "" {
			index.documentIdentities[idRegDocument.ID] = idRegDocument.IdentityID
		}
	}

	return index
}

// IdentityOwner returns the FixedRef owning identityID.
func (index *IdentityIndex) IdentityOwner(identityID string) (string, bool) {
	fixedRef, found := index.owners[identityID]
	return fixedRef, found
}

// DocumentOwner follows an IDRegDocument reference to its owning party. A
// reference that names no known document is tried as an identity ID.
func (index *IdentityIndex) DocumentOwner(documentID string) (string, bool) {
	if identityID, found := index.documentIdentities[documentID]; found {
		return index.IdentityOwner(identityID)
	}
	return index.IdentityOwner(documentID)
}

// Len returns the number of indexed identities.
func (index *IdentityIndex) Len() int {
	return len(index.owners)
}
