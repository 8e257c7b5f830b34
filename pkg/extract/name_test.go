package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coolbeans/sdnexport/pkg/reference"
	"github.com/coolbeans/sdnexport/pkg/sdn"
)

func TestExtractNamesSample(t *testing.T) {
	sheet := ExtractNames(loadSampleInput(t, Options{}))

	assert.Equal(t, [][]string{
		{"100", "120", "Individual", "true", "Name", "false", "false", "Latin", "Doe, Jane"},
		{"100", "121", "Individual", "false", "A.K.A.", "true", "false", "Latin", "Janie"},
		{"101", "122", "Business", "true", "Name", "false", "false", "Latin", "ACME TRADING LLC"},
	}, sheet.Rows)
}

var testNamePartTypes = reference.NewTable([]sdn.ReferenceValue{
	{ID: "last", Label: "1520"},
	{ID: "first", Label: "1521"},
	{ID: "middle", Label: "1522"},
	{ID: "maiden", Label: "1523"},
	{ID: "aircraft", Label: "1524"},
	{ID: "entity", Label: "1525"},
	{ID: "vessel", Label: "1526"},
	{ID: "nickname", Label: "1528"},
	{ID: "patronymic", Label: "91708"},
	{ID: "matronymic", Label: "91709"},
})

func parts(groupsAndText ...string) []sdn.NamePartValue {
	var values []sdn.NamePartValue
	for index := 0; index+1 < len(groupsAndText); index += 2 {
		values = append(values, sdn.NamePartValue{NamePartGroupID: groupsAndText[index], Text: groupsAndText[index+1]})
	}
	return values
}

func TestRenderName(t *testing.T) {
	testCases := []struct {
		name     string
		parts    []sdn.NamePartValue
		expected string
	}{
		{"last and first", parts("last", "Smith", "first", "John"), "Smith, John"},
		{"full", parts("first", "John", "last", "Smith", "middle", "Q", "maiden", "Jones"), "Smith, John Q Jones"},
		{"maiden without middle", parts("last", "Smith", "first", "Ann", "maiden", "Lee"), "Smith, Ann  Lee"},
		{"last only", parts("last", "Smith", "nickname", "Smitty"), "Smith"},
		{"patronymic form", parts("patronymic", "Ivanovich", "matronymic", "Petrova", "first", "Ivan"), "Ivanovich Petrova, Ivan"},
		{"patronymic without matronymic", parts("patronymic", "Ivanovich", "first", "Ivan"), ""},
		{"nickname", parts("nickname", "Shadow", "entity", "Acme Corp"), "Shadow"},
		{"entity", parts("entity", "Acme Corp"), "Acme Corp"},
		{"aircraft", parts("aircraft", "EP-ABC", "vessel", "SEA STAR"), "EP-ABC"},
		{"vessel", parts("vessel", "SEA STAR"), "SEA STAR"},
		{"quotes stripped", parts("entity", `"Acme"`), "Acme"},
		{"unresolvable groups", parts("unknown", "Nobody"), ""},
		{"no parts", nil, ""},
		{"later part of a role wins", parts("entity", "Old", "entity", "New"), "New"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, RenderName(testCase.parts, testNamePartTypes))
		})
	}
}

func TestExtractNamesDeduplicates(t *testing.T) {
	documentedName := sdn.DocumentedName{
		ID: "120",
		Parts: []sdn.NamePartValue{
			{NamePartGroupID: "140", ScriptID: "215", Acronym: "false", Text: "Acme Corp"},
		},
	}
	alias := sdn.Alias{AliasTypeID: "1403", Primary: "true", LowQuality: "false",
		DocumentedNames: []sdn.DocumentedName{documentedName, documentedName}}
	other := sdn.Alias{AliasTypeID: "1403", Primary: "false", LowQuality: "false",
		DocumentedNames: []sdn.DocumentedName{documentedName}}

	document := &sdn.Document{
		DistinctParties: []sdn.DistinctParty{{
			FixedRef: "9",
			Profiles: []sdn.Profile{{
				PartySubTypeID: "3",
				Identities: []sdn.Identity{{
					ID:             "1",
					Aliases:        []sdn.Alias{alias, other, alias},
					NamePartGroups: []sdn.NamePartGroup{{ID: "140", NamePartTypeID: "1525"}},
				}},
			}},
		}},
	}

	sheet := ExtractNames(NewInput(document, Options{}))
	assert.Equal(t, [][]string{
		{"9", "120", "Business", "true", "Unknown", "false", "false", "Unknown", "Acme Corp"},
		{"9", "120", "Business", "false", "Unknown", "false", "false", "Unknown", "Acme Corp"},
	}, sheet.Rows)
}

func TestExtractNamesWithoutParts(t *testing.T) {
	document := &sdn.Document{
		DistinctParties: []sdn.DistinctParty{{
			FixedRef: "9",
			Profiles: []sdn.Profile{{
				PartySubTypeID: "7",
				Identities: []sdn.Identity{{
					ID: "1",
					Aliases: []sdn.Alias{{AliasTypeID: "1400", Primary: "true", LowQuality: "false",
						DocumentedNames: []sdn.DocumentedName{{ID: "5"}}}},
				}},
			}},
		}},
	}

	sheet := ExtractNames(NewInput(document, Options{}))
	assert.Equal(t, [][]string{
		{"9", "5", "Unknown", "true", "Unknown", "false", "false", "Unknown", ""},
	}, sheet.Rows)
}
