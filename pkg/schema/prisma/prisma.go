// Package prisma builds constraint contracts from Prisma schema files.
package prisma

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/leapstack-labs/normaudit/pkg/contract"
	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/schema"
)

func init() {
	schema.Register(Builder{}, ".prisma")
}

// Builder implements contract.Builder for Prisma schemas.
type Builder struct{}

var _ contract.Builder = Builder{}

// Format returns "prisma".
func (Builder) Format() string { return "prisma" }

// Build parses src and converts its model and view blocks into a contract.
func (Builder) Build(filename string, src []byte) (*core.Contract, error) {
	file, err := prismaParser.ParseBytes(filename, src)
	if err != nil {
		return nil, schema.NewParseError(filename, err)
	}

	b := &builder{filename: filename, models: make(map[string]bool)}
	return b.build(file)
}

type builder struct {
	filename string
	models   map[string]bool
}

func (b *builder) errorf(pos lexer.Position, format string, args ...any) error {
	return schema.Errorf(b.filename, pos.Line, pos.Column, format, args...)
}

func (b *builder) build(file *schemaFile) (*core.Contract, error) {
	var blocks []*modelBlock
	for _, blk := range file.Blocks {
		if blk.Model == nil || blk.Model.Kind == "type" {
			continue
		}
		if b.models[blk.Model.Name] {
			return nil, b.errorf(blk.Model.Pos, "duplicate model %q", blk.Model.Name)
		}
		b.models[blk.Model.Name] = true
		blocks = append(blocks, blk.Model)
	}

	c := &core.Contract{Models: make([]core.ModelContract, 0, len(blocks))}
	for _, blk := range blocks {
		m, err := b.model(blk)
		if err != nil {
			return nil, err
		}
		c.Models = append(c.Models, m)
	}
	return c, nil
}

func (b *builder) model(blk *modelBlock) (core.ModelContract, error) {
	m := core.ModelContract{Name: blk.Name}

	for _, item := range blk.Members {
		if item.Field == nil {
			continue
		}
		if err := b.field(&m, item.Field); err != nil {
			return m, err
		}
	}

	for _, item := range blk.Members {
		if item.BlockAttribute == nil {
			continue
		}
		if err := b.blockAttribute(&m, item.BlockAttribute); err != nil {
			return m, err
		}
	}
	return m, nil
}

func (b *builder) field(m *core.ModelContract, f *field) error {
	relation := findAttribute(f.Attributes, "relation")
	if b.models[f.Type.Name] || relation != nil {
		return b.relation(m, f, relation)
	}

	if m.HasField(f.Name) {
		return b.errorf(f.Pos, "duplicate field %q in model %q", f.Name, m.Name)
	}

	typeName := f.Type.Name
	if f.Type.Unsupported != nil {
		typeName = *f.Type.Unsupported
	}
	fc := core.FieldContract{
		Name:       f.Name,
		Type:       contract.CanonicalPrismaType(typeName),
		IsNullable: f.Type.Optional,
		IsList:     f.Type.List,
	}

	for _, attr := range f.Attributes {
		switch attr.Name {
		case "default", "updatedAt":
			fc.HasDefault = true
		case "id":
			if m.PrimaryKey != nil {
				return b.errorf(attr.Pos, "model %q has more than one primary key", m.Name)
			}
			m.PrimaryKey = &core.PrimaryKeyConstraint{Fields: []string{f.Name}}
		case "unique":
			m.UniqueConstraints = append(m.UniqueConstraints, core.UniqueConstraint{
				Fields: []string{f.Name},
				Name:   constraintName(attr.Args),
			})
		}
	}

	m.Fields = append(m.Fields, fc)
	return nil
}

// relation records the foreign key of a relation field. Back-relations and
// implicit many-to-many lists carry no fields and contribute nothing.
func (b *builder) relation(m *core.ModelContract, f *field, attr *attribute) error {
	if attr == nil {
		return nil
	}
	fields, err := b.fieldList(attr, namedArg(attr.Args, "fields"))
	if err != nil || len(fields) == 0 {
		return err
	}
	refs, err := b.fieldList(attr, namedArg(attr.Args, "references"))
	if err != nil {
		return err
	}
	if len(refs) != len(fields) {
		return b.errorf(attr.Pos, "relation %s.%s: fields and references differ in length", m.Name, f.Name)
	}

	fk := core.ForeignKeyConstraint{
		Fields:           fields,
		ReferencedModel:  f.Type.Name,
		ReferencedFields: refs,
		Name:             stringArg(attr.Args, "map"),
	}
	if fk.OnDelete, err = b.action(attr, "onDelete"); err != nil {
		return err
	}
	if fk.OnUpdate, err = b.action(attr, "onUpdate"); err != nil {
		return err
	}
	m.ForeignKeys = append(m.ForeignKeys, fk)
	return nil
}

func (b *builder) action(attr *attribute, name string) (core.ReferentialAction, error) {
	v := namedArg(attr.Args, name)
	if v == nil {
		return "", nil
	}
	if v.Call == nil {
		return "", b.errorf(attr.Pos, "%s must be a referential action", name)
	}
	action, ok := contract.ParseAction(v.Call.Name)
	if !ok {
		return "", b.errorf(attr.Pos, "unknown referential action %q", v.Call.Name)
	}
	return action, nil
}

func (b *builder) blockAttribute(m *core.ModelContract, attr *attribute) error {
	switch attr.Name {
	case "id", "unique", "index":
	default:
		return nil
	}

	fields, err := b.fieldList(attr, positionalArg(attr.Args, "fields"))
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return b.errorf(attr.Pos, "@@%s requires a list of fields", attr.Name)
	}
	for _, name := range fields {
		if !m.HasField(name) {
			return b.errorf(attr.Pos, "@@%s references unknown field %q in model %q", attr.Name, name, m.Name)
		}
	}

	switch attr.Name {
	case "id":
		if m.PrimaryKey != nil {
			return b.errorf(attr.Pos, "model %q has more than one primary key", m.Name)
		}
		m.PrimaryKey = &core.PrimaryKeyConstraint{Fields: fields}
	case "unique":
		m.UniqueConstraints = append(m.UniqueConstraints, core.UniqueConstraint{
			Fields: fields,
			Name:   constraintName(attr.Args),
		})
	case "index":
		m.Indexes = append(m.Indexes, core.IndexConstraint{
			Fields: fields,
			Name:   constraintName(attr.Args),
		})
	}
	return nil
}

// fieldList reads a [a, b(sort: Desc)] argument as field names.
func (b *builder) fieldList(attr *attribute, v *value) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	if v.Array == nil {
		return nil, b.errorf(attr.Pos, "@%s expects a list of fields", attr.Name)
	}
	names := make([]string, 0, len(v.Array.Items))
	for _, item := range v.Array.Items {
		if item.Call == nil {
			return nil, b.errorf(attr.Pos, "@%s expects field names", attr.Name)
		}
		names = append(names, item.Call.Name)
	}
	return names, nil
}

func findAttribute(attrs []*attribute, name string) *attribute {
	for _, attr := range attrs {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}

func namedArg(args []*argument, name string) *value {
	for _, arg := range args {
		if arg.Name == name {
			return arg.Value
		}
	}
	return nil
}

// positionalArg returns the first unnamed argument, falling back to name.
func positionalArg(args []*argument, name string) *value {
	if len(args) > 0 && args[0].Name == "" {
		return args[0].Value
	}
	return namedArg(args, name)
}

func stringArg(args []*argument, name string) string {
	if v := namedArg(args, name); v != nil && v.String != nil {
		return *v.String
	}
	return ""
}

// constraintName prefers the client name over the database name.
func constraintName(args []*argument) string {
	if name := stringArg(args, "name"); name != "" {
		return name
	}
	return stringArg(args, "map")
}

