package lint

import (
	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/fd"
	"github.com/leapstack-labs/normaudit/pkg/keys"
)

// Context provides the derived facts rules inspect.
// It is built once per audit and never modified afterwards.
type Context struct {
	contract   *core.Contract
	invariants *core.Invariants
	models     []*ModelContext
	byName     map[string]*ModelContext
}

// ModelContext bundles one model with its candidate keys and dependencies.
type ModelContext struct {
	Model *core.ModelContract

	// Keys are the declared candidate keys, primary key first.
	Keys []core.CandidateKey

	// Dependencies are the schema-derived dependencies followed by the
	// invariant-declared ones for this model.
	Dependencies []core.FunctionalDependency

	fields    keys.Set
	keyFields keys.Set
	fkFields  keys.Set
}

// NewContext derives keys and dependencies for every model of c.
// c is expected to be normalized; inv may be nil.
func NewContext(c *core.Contract, inv *core.Invariants) *Context {
	if c == nil {
		c = &core.Contract{}
	}
	ctx := &Context{
		contract:   c,
		invariants: inv,
		byName:     make(map[string]*ModelContext, len(c.Models)),
	}

	deps := fd.ByModel(fd.Infer(c, inv))
	for i := range c.Models {
		m := &c.Models[i]
		mc := &ModelContext{
			Model:        m,
			Keys:         keys.ForModel(m),
			Dependencies: deps[m.Name],
			fields:       keys.NewSet(m.FieldNames()...),
			fkFields:     make(keys.Set),
		}
		mc.keyFields = keys.Fields(mc.Keys)
		for _, fk := range m.ForeignKeys {
			mc.fkFields.Add(fk.Fields...)
		}
		ctx.models = append(ctx.models, mc)
		ctx.byName[m.Name] = mc
	}
	return ctx
}

// Contract returns the contract under analysis.
func (c *Context) Contract() *core.Contract {
	return c.contract
}

// Invariants returns the declared invariants, or nil when none were supplied.
func (c *Context) Invariants() *core.Invariants {
	return c.invariants
}

// Models returns model contexts in contract order.
func (c *Context) Models() []*ModelContext {
	return c.models
}

// Model looks up a model context by name.
func (c *Context) Model(name string) (*ModelContext, bool) {
	mc, ok := c.byName[name]
	return mc, ok
}

// Name returns the model name.
func (m *ModelContext) Name() string {
	return m.Model.Name
}

// HasField reports whether the model declares the field.
func (m *ModelContext) HasField(name string) bool {
	return m.fields.Has(name)
}

// UnknownFields returns the names the model does not declare, in input order.
func (m *ModelContext) UnknownFields(names []string) []string {
	var unknown []string
	for _, n := range names {
		if !m.fields.Has(n) {
			unknown = append(unknown, n)
		}
	}
	return unknown
}

// UnknownDependents returns the dependent tokens of m that do not resolve, in
// input order. Plain tokens name fields of m; qualified tokens ("Model.field")
// must name a field of another model in the contract.
func (c *Context) UnknownDependents(m *ModelContext, tokens []string) []string {
	var unknown []string
	for _, t := range tokens {
		model, field, qualified := fd.SplitQualified(t)
		if !qualified {
			if !m.HasField(t) {
				unknown = append(unknown, t)
			}
			continue
		}
		if target, ok := c.Model(model); !ok || !target.HasField(field) {
			unknown = append(unknown, t)
		}
	}
	return unknown
}

// IsKeyField reports whether the field is part of any candidate key.
func (m *ModelContext) IsKeyField(name string) bool {
	return m.keyFields.Has(name)
}

// IsForeignKeyField reports whether the field is part of any foreign key.
func (m *ModelContext) IsForeignKeyField(name string) bool {
	return m.fkFields.Has(name)
}

// PrimaryKey returns the pk candidate key, if declared.
func (m *ModelContext) PrimaryKey() (core.CandidateKey, bool) {
	return keys.PrimaryKey(m.Keys)
}
