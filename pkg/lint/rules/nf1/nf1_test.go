package nf1

import (
	"testing"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextFor(fields ...core.FieldContract) *lint.Context {
	return lint.NewContext(&core.Contract{Models: []core.ModelContract{{
		Name:       "Contact",
		Fields:     fields,
		PrimaryKey: &core.PrimaryKeyConstraint{Fields: []string{"id"}},
	}}}, nil)
}

func field(name string, typ core.FieldType) core.FieldContract {
	return core.FieldContract{Name: name, Type: typ}
}

func TestJSONRelation(t *testing.T) {
	ctx := contextFor(
		field("id", core.FieldTypeInt),
		field("metadata", core.FieldTypeJSON),
		field("name", core.FieldTypeString),
	)

	findings := lint.Apply(lint.FromDef(JSONRelation), ctx, nil)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, core.RuleNF1JSONRelation, f.Rule)
	assert.Equal(t, core.SeverityInfo, f.Severity)
	assert.Equal(t, core.NormalForm1NF, f.NormalForm)
	assert.Equal(t, "Contact", f.Model)
	assert.Equal(t, "metadata", f.FieldName())
	assert.NotNil(t, f.Fix)
}

func TestListInString(t *testing.T) {
	tests := []struct {
		name  string
		field core.FieldContract
		want  bool
	}{
		{"camel ids", field("tagIds", core.FieldTypeString), true},
		{"snake ids", field("tag_ids", core.FieldTypeString), true},
		{"acronym ids", field("tagIDs", core.FieldTypeString), true},
		{"list suffix", field("userList", core.FieldTypeString), true},
		{"plural collection", field("emails", core.FieldTypeString), true},
		{"csv", field("export_csv", core.FieldTypeString), true},
		{"roles word", field("userRoles", core.FieldTypeString), true},
		{"singular", field("email", core.FieldTypeString), false},
		{"not a string", field("tagIds", core.FieldTypeJSON), false},
		{"native list", core.FieldContract{Name: "tags", Type: core.FieldTypeString, IsList: true}, false},
		{"plain name", field("status", core.FieldTypeString), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := lint.Apply(lint.FromDef(ListInString), contextFor(tt.field), nil)
			if !tt.want {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, core.RuleNF1ListInString, findings[0].Rule)
			assert.Equal(t, tt.field.Name, findings[0].FieldName())
			assert.NotNil(t, findings[0].Fix)
		})
	}
}

func TestRepeatingGroup(t *testing.T) {
	ctx := contextFor(
		field("id", core.FieldTypeInt),
		field("phone1", core.FieldTypeString),
		field("phone2", core.FieldTypeString),
		field("phone3", core.FieldTypeString),
		field("address_1", core.FieldTypeString),
		field("address_2", core.FieldTypeString),
		field("line1", core.FieldTypeString),
	)

	findings := lint.Apply(lint.FromDef(RepeatingGroup), ctx, nil)
	require.Len(t, findings, 2)

	for _, f := range findings {
		assert.Nil(t, f.Field)
		assert.NotNil(t, f.Fix)
		assert.Equal(t, core.NormalForm1NF, f.NormalForm)
	}
	assert.Contains(t, findings[0].Message, "phone1, phone2, phone3")
	assert.Contains(t, findings[1].Message, "address_1, address_2")
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"tagIds", []string{"tag", "Ids"}},
		{"tag_ids", []string{"tag", "ids"}},
		{"externalURLList", []string{"external", "URL", "List"}},
		{"id", []string{"id"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitWords(tt.in))
		})
	}
}

func TestSplitNumberSuffix(t *testing.T) {
	base, ok := splitNumberSuffix("phone_12")
	assert.True(t, ok)
	assert.Equal(t, "phone", base)

	_, ok = splitNumberSuffix("phone")
	assert.False(t, ok)

	_, ok = splitNumberSuffix("42")
	assert.False(t, ok)
}
