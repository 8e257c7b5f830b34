package extract

import (
	"strings"

	"github.com/coolbeans/sdnexport/pkg/codes"
	"github.com/coolbeans/sdnexport/pkg/reference"
	"github.com/coolbeans/sdnexport/pkg/sdn"
	"github.com/coolbeans/sdnexport/pkg/table"
)

// NameColumns are the NAME sheet headers.
var NameColumns = []string{
	"FixedRef",
	"DocumentedNameID",
	"Designation",
	"Primary Entry",
	"Alias Type",
	"Low Quality",
	"Acronym",
	"Script",
	"Name",
}

type nameRow [9]string

// nameSlots holds the text of each name part, indexed by role.
type nameSlots [codes.NamePartMatronymic + 1]string

func (slots *nameSlots) get(role codes.NamePartRole) string {
	return slots[role]
}

// render picks the display name by priority: "last, first middle maiden";
// last alone; "patronymic matronymic, first middle maiden"; then nickname,
// entity, aircraft and vessel names.
func (slots *nameSlots) render() string {
	last := slots.get(codes.NamePartLast)
	first := slots.get(codes.NamePartFirst)
	middle := slots.get(codes.NamePartMiddle)
	maiden := slots.get(codes.NamePartMaiden)
	patronymic := slots.get(codes.NamePartPatronymic)
	matronymic := slots.get(codes.NamePartMatronymic)

	switch {
	case last != "" && first != "":
		return strings.TrimSpace(last + ", " + first + " " + middle + " " + maiden)
	case last != "":
		return last
	case patronymic != "" && matronymic != "" && first != "":
		return strings.TrimSpace(patronymic + " " + matronymic + ", " + first + " " + middle + " " + maiden)
	}

	for _, role := range []codes.NamePartRole{
		codes.NamePartNickname,
		codes.NamePartEntity,
		codes.NamePartAircraft,
		codes.NamePartVessel,
	} {
		if value := slots.get(role); value != "" {
			return value
		}
	}
	return ""
}

// RenderName fills the role slots from a documented name's parts and renders it.
func RenderName(parts []sdn.NamePartValue, namePartTypes reference.Table) string {
	var slots nameSlots
	for _, part := range parts {
		role := codes.ParseNamePartRole(namePartTypes.LabelOr(part.NamePartGroupID, ""))
		if role == codes.NamePartOther {
			continue
		}
		slots[role] = strings.Trim(part.Text, `"`)
	}
	return slots.render()
}

// ExtractNames emits one row per DocumentedName of every alias. Rows identical
// in all columns are emitted once, at their first position.
func ExtractNames(input *Input) table.Sheet {
	tables := input.Tables
	sheet := table.Sheet{Name: table.NameSheet, Columns: NameColumns}
	seen := make(map[nameRow]bool)

	for _, party := range input.Document.DistinctParties {
		for _, profile := range party.Profiles {
			designation := codes.ParsePartySubType(profile.PartySubTypeID).Designation()

			for _, identity := range profile.Identities {
				for _, alias := range identity.Aliases {
					aliasType := tables.AliasTypes.LabelOr(alias.AliasTypeID, reference.Unknown)

					for _, documentedName := range alias.DocumentedNames {
						script, acronym := reference.Unknown, "false"
						if len(documentedName.Parts) > 0 {
							firstPart := documentedName.Parts[0]
							script = tables.Scripts.LabelOr(firstPart.ScriptID, reference.Unknown)
							acronym = firstPart.Acronym
						}

						row := nameRow{
							party.FixedRef,
							documentedName.ID,
							designation,
							alias.Primary,
							aliasType,
							alias.LowQuality,
							acronym,
							script,
							RenderName(documentedName.Parts, tables.NamePartTypes),
						}
						if seen[row] {
							continue
						}
						seen[row] = true
						sheet.Rows = append(sheet.Rows, row[:])
					}
				}
			}
		}
	}

	return sheet
}
