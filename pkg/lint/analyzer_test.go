package lint

import (
	"testing"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() *Context {
	return NewContext(&core.Contract{Models: []core.ModelContract{
		{
			Name: "Post",
			Fields: []core.FieldContract{
				{Name: "body", Type: core.FieldTypeJSON},
				{Name: "id", Type: core.FieldTypeInt},
			},
			PrimaryKey: &core.PrimaryKeyConstraint{Fields: []string{"id"}},
		},
		{
			Name:   "Tag",
			Fields: []core.FieldContract{{Name: "meta", Type: core.FieldTypeJSON}},
		},
	}}, nil)
}

func jsonRule() Rule {
	return FromDef(RuleDef{
		ID:         core.RuleNF1JSONRelation,
		Name:       "json-relation",
		Group:      "nf1",
		NormalForm: core.NormalForm1NF,
		Severity:   core.SeverityInfo,
		Check: PerField(
			func(_ *ModelContext, f core.FieldContract) bool { return f.Type == core.FieldTypeJSON },
			func(m *ModelContext, f core.FieldContract) (string, string) { return m.Name() + "." + f.Name, "" },
		),
	})
}

func modelRule() Rule {
	return FromDef(RuleDef{
		ID:         core.RuleFKMissingIndex,
		Name:       "model-rule",
		Group:      "quality",
		NormalForm: core.NormalFormSchema,
		Severity:   core.SeverityWarning,
		Check: func(ctx *Context) []core.Finding {
			var out []core.Finding
			for _, m := range ctx.Models() {
				out = append(out, core.Finding{Model: m.Name(), Message: "model"})
			}
			return out
		},
	})
}

func TestAnalyzer_StampsAndSorts(t *testing.T) {
	a := NewAnalyzer(nil, WithRules([]Rule{modelRule(), jsonRule()}))

	findings := a.Analyze(sampleContext())
	require.Len(t, findings, 4)

	assert.Equal(t, "Post", findings[0].Model)
	assert.Equal(t, core.RuleNF1JSONRelation, findings[0].Rule)
	assert.Equal(t, core.NormalForm1NF, findings[0].NormalForm)
	assert.Equal(t, core.SeverityInfo, findings[0].Severity)
	assert.Nil(t, findings[0].Fix, "empty fix renders as null")

	assert.Equal(t, core.RuleFKMissingIndex, findings[1].Rule)
	assert.Equal(t, "Tag", findings[2].Model)
}

func TestAnalyzer_DisabledRule(t *testing.T) {
	cfg := NewConfig().Disable(core.RuleNF1JSONRelation)
	a := NewAnalyzer(cfg, WithRules([]Rule{modelRule(), jsonRule()}))

	findings := a.Analyze(sampleContext())
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, core.RuleFKMissingIndex, f.Rule)
	}
}

func TestAnalyzer_SeverityOverride(t *testing.T) {
	cfg := NewConfig().SetSeverity(core.RuleNF1JSONRelation, core.SeverityWarning)
	a := NewAnalyzer(cfg, WithRules([]Rule{jsonRule()}))

	for _, f := range a.Analyze(sampleContext()) {
		assert.Equal(t, core.SeverityWarning, f.Severity)
	}
}

func TestAnalyzer_NilContext(t *testing.T) {
	findings := NewAnalyzer(nil, WithRules([]Rule{jsonRule()})).Analyze(nil)
	assert.NotNil(t, findings)
	assert.Empty(t, findings)
}

func TestAnalyzer_EmptyContract(t *testing.T) {
	findings := NewAnalyzer(nil, WithRules([]Rule{jsonRule(), modelRule()})).Analyze(NewContext(nil, nil))
	assert.Empty(t, findings)
}

func TestSortFindings(t *testing.T) {
	field := core.Ptr
	findings := []core.Finding{
		{Model: "B", NormalForm: core.NormalForm1NF, Rule: "R"},
		{Model: "A", NormalForm: core.NormalFormSchema, Rule: "A"},
		{Model: "A", NormalForm: core.NormalForm2NF, Rule: "Z", Field: field("x")},
		{Model: "A", NormalForm: core.NormalForm2NF, Rule: "Z"},
		{Model: "A", NormalForm: core.NormalForm2NF, Rule: "Y", Message: "b"},
		{Model: "A", NormalForm: core.NormalForm2NF, Rule: "Y", Message: "a"},
	}

	SortFindings(findings)

	assert.Equal(t, "a", findings[0].Message)
	assert.Equal(t, "b", findings[1].Message)
	assert.Nil(t, findings[2].Field)
	assert.Equal(t, "x", findings[3].FieldName())
	assert.Equal(t, core.NormalFormSchema, findings[4].NormalForm)
	assert.Equal(t, "B", findings[5].Model)
}

func TestConfigFromSettings(t *testing.T) {
	cfg, err := ConfigFromSettings(
		[]string{"nf1_json_relation_suspected"},
		map[string]string{"FK_MISSING_INDEX": "info"},
	)
	require.NoError(t, err)
	assert.True(t, cfg.IsDisabled(core.RuleNF1JSONRelation))
	assert.Equal(t, core.SeverityInfo, cfg.GetSeverity(core.RuleFKMissingIndex, core.SeverityWarning))
	assert.Equal(t, core.SeverityWarning, cfg.GetSeverity(core.RuleNF3Violation, core.SeverityWarning))

	_, err = ConfigFromSettings([]string{"NOPE"}, nil)
	var unknown *UnknownRuleError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "NOPE", unknown.Rule)

	_, err = ConfigFromSettings(nil, map[string]string{"NF3_VIOLATION": "fatal"})
	require.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Add(modelRule())
	r.Add(jsonRule())

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, core.RuleNF1JSONRelation, all[0].ID())

	got, ok := r.Get(core.RuleFKMissingIndex)
	require.True(t, ok)
	assert.Equal(t, "model-rule", got.Name())
	assert.Len(t, r.Group("quality"), 1)
	assert.Equal(t, 2, r.Len())
}

func TestGetRuleInfo(t *testing.T) {
	r := FromDef(RuleDef{
		ID:        core.RuleNF3Violation,
		Name:      "transitive-dependency",
		Group:     "nf3",
		Rationale: "why",
	})
	info := GetRuleInfo(r)
	assert.Equal(t, core.RuleNF3Violation, info.ID)
	assert.Equal(t, "why", info.Rationale)
}

func TestModelContext(t *testing.T) {
	ctx := NewContext(&core.Contract{Models: []core.ModelContract{{
		Name:              "Post",
		Fields:            []core.FieldContract{{Name: "authorId"}, {Name: "id"}, {Name: "slug"}},
		PrimaryKey:        &core.PrimaryKeyConstraint{Fields: []string{"id"}},
		UniqueConstraints: []core.UniqueConstraint{{Fields: []string{"slug"}}},
		ForeignKeys:       []core.ForeignKeyConstraint{{Fields: []string{"authorId"}, ReferencedModel: "User", ReferencedFields: []string{"id"}}},
	}}}, nil)

	m, ok := ctx.Model("Post")
	require.True(t, ok)
	assert.True(t, m.IsKeyField("slug"))
	assert.False(t, m.IsKeyField("authorId"))
	assert.True(t, m.IsForeignKeyField("authorId"))
	assert.Equal(t, []string{"ghost"}, m.UnknownFields([]string{"id", "ghost"}))
	assert.Equal(t, []string{"ghost", "Ghost.id", "Post.nope"},
		ctx.UnknownDependents(m, []string{"slug", "ghost", "Ghost.id", "Post.id", "Post.nope"}))
	assert.Len(t, m.Dependencies, 3)

	_, ok = ctx.Model("Ghost")
	assert.False(t, ok)
}
