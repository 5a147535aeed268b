package fd

import (
	"testing"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(names ...string) []core.FieldContract {
	out := make([]core.FieldContract, len(names))
	for i, n := range names {
		out[i] = core.FieldContract{Name: n, Type: core.FieldTypeString}
	}
	return out
}

func TestForModel(t *testing.T) {
	m := &core.ModelContract{
		Name:       "Post",
		Fields:     fields("authorId", "id", "slug", "title"),
		PrimaryKey: &core.PrimaryKeyConstraint{Fields: []string{"id"}},
		UniqueConstraints: []core.UniqueConstraint{
			{Fields: []string{"slug"}},
		},
		ForeignKeys: []core.ForeignKeyConstraint{
			{Fields: []string{"authorId"}, ReferencedModel: "User", ReferencedFields: []string{"id"}},
		},
	}

	fds := ForModel(m)
	require.Len(t, fds, 3)

	assert.Equal(t, core.FunctionalDependency{
		Model:       "Post",
		Determinant: []string{"id"},
		Dependent:   []string{"authorId", "slug", "title"},
		Source:      core.SourcePK,
	}, fds[0])

	assert.Equal(t, core.SourceUnique, fds[1].Source)
	assert.Equal(t, []string{"slug"}, fds[1].Determinant)
	assert.Equal(t, []string{"authorId", "id", "title"}, fds[1].Dependent, "unique dependents include pk fields")

	assert.Equal(t, core.SourceFK, fds[2].Source)
	assert.Equal(t, []string{"authorId"}, fds[2].Determinant)
	assert.Equal(t, []string{"User.id"}, fds[2].Dependent)
}

func TestForModel_PKTotality(t *testing.T) {
	m := &core.ModelContract{
		Name:       "Tag",
		Fields:     fields("id"),
		PrimaryKey: &core.PrimaryKeyConstraint{Fields: []string{"id"}},
	}

	for _, d := range ForModel(m) {
		assert.NotEqual(t, core.SourcePK, d.Source)
	}
	assert.Empty(t, ForModel(m))
}

func TestForModel_UniqueCoveringAllFieldsOmitted(t *testing.T) {
	m := &core.ModelContract{
		Name:              "PostTag",
		Fields:            fields("postId", "tagId"),
		UniqueConstraints: []core.UniqueConstraint{{Fields: []string{"postId", "tagId"}}},
	}

	assert.Empty(t, ForModel(m))
}

func TestFromInvariants(t *testing.T) {
	inv := &core.Invariants{Models: map[string]core.ModelInvariants{
		"Zip": {FunctionalDependencies: []core.DeclaredDependency{
			{Determinant: []string{"zip"}, Dependent: []string{"city"}, Note: "postal"},
		}},
		"Address": {FunctionalDependencies: []core.DeclaredDependency{
			{Determinant: []string{"zip"}, Dependent: []string{"city"}},
			{Determinant: []string{"ghost"}, Dependent: []string{"ghost"}},
		}},
	}}

	fds := FromInvariants(inv)
	require.Len(t, fds, 3)
	assert.Equal(t, "Address", fds[0].Model)
	assert.Equal(t, []string{"ghost"}, fds[1].Determinant)
	assert.Equal(t, "Zip", fds[2].Model)
	assert.Equal(t, "postal", fds[2].Note)
	for _, d := range fds {
		assert.Equal(t, core.SourceInvariant, d.Source)
	}
}

func TestInfer_OrderAndNil(t *testing.T) {
	assert.Empty(t, Infer(nil, nil))

	c := &core.Contract{Models: []core.ModelContract{
		{Name: "A", Fields: fields("id", "x"), PrimaryKey: &core.PrimaryKeyConstraint{Fields: []string{"id"}}},
	}}
	inv := &core.Invariants{Models: map[string]core.ModelInvariants{
		"A": {FunctionalDependencies: []core.DeclaredDependency{{Determinant: []string{"x"}, Dependent: []string{"id"}}}},
	}}

	fds := Infer(c, inv)
	require.Len(t, fds, 2)
	assert.Equal(t, core.SourcePK, fds[0].Source)
	assert.Equal(t, core.SourceInvariant, fds[1].Source)

	grouped := ByModel(fds)
	assert.Len(t, grouped["A"], 2)
}

func TestLocalFields(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, LocalFields([]string{"a", "User.id", "b"}))
	assert.True(t, IsQualified(QualifiedField("User", "id")))

	model, field, ok := SplitQualified("User.id")
	assert.True(t, ok)
	assert.Equal(t, "User", model)
	assert.Equal(t, "id", field)

	_, _, ok = SplitQualified("id")
	assert.False(t, ok)
}
