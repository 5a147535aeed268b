// Package ddl builds constraint contracts from SQL DDL scripts.
//
// The grammar is tolerant: CREATE TABLE, CREATE INDEX and ALTER TABLE ... ADD
// are interpreted, every other statement is skipped.
package ddl

import (
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/leapstack-labs/normaudit/pkg/contract"
	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/schema"
)

func init() {
	schema.Register(Builder{}, ".sql", ".ddl")
}

// Builder implements contract.Builder for SQL DDL.
type Builder struct{}

var _ contract.Builder = Builder{}

// Format returns "sql".
func (Builder) Format() string { return "sql" }

// Build parses src and converts its table definitions into a contract.
func (Builder) Build(filename string, src []byte) (*core.Contract, error) {
	file, err := ddlParser.ParseBytes(filename, src)
	if err != nil {
		return nil, schema.NewParseError(filename, err)
	}

	b := &builder{filename: filename, tables: make(map[string]*table)}
	for _, stmt := range file.Statements {
		if err := b.statement(stmt); err != nil {
			return nil, err
		}
	}
	return b.contract(), nil
}

type table struct {
	model core.ModelContract
	// implicit holds indexes of foreign keys declared without referenced columns.
	implicit []int
}

type builder struct {
	filename string
	tables   map[string]*table
	order    []*table
}

func (b *builder) errorf(pos lexer.Position, format string, args ...any) error {
	return schema.Errorf(b.filename, pos.Line, pos.Column, format, args...)
}

func (b *builder) statement(stmt *statement) error {
	switch {
	case stmt.CreateTable != nil:
		return b.createTable(stmt.CreateTable)
	case stmt.CreateIndex != nil:
		return b.createIndex(stmt.CreateIndex)
	case stmt.AlterTable != nil:
		return b.alterTable(stmt.AlterTable)
	}
	return nil
}

// lookup finds a table by name. Unquoted SQL names compare case-insensitively.
func (b *builder) lookup(name string) *table {
	return b.tables[strings.ToLower(name)]
}

func (b *builder) createTable(ct *createTable) error {
	name := ct.Name.last()
	if b.lookup(name) != nil {
		return b.errorf(ct.Pos, "duplicate table %q", name)
	}

	t := &table{model: core.ModelContract{Name: name}}
	b.tables[strings.ToLower(name)] = t
	b.order = append(b.order, t)

	for _, el := range ct.Elements {
		if el.Column != nil {
			if err := b.addColumn(t, el.Column); err != nil {
				return err
			}
		}
	}
	for _, el := range ct.Elements {
		if el.Constraint != nil {
			if err := b.addConstraint(t, el.Constraint); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) createIndex(ci *createIndex) error {
	t := b.lookup(ci.Table.last())
	if t == nil {
		return b.errorf(ci.Table.Pos, "index on unknown table %q", ci.Table.last())
	}

	fields, ok, err := b.keyFields(t, ci.Pos, ci.Columns)
	if err != nil || !ok {
		return err
	}
	var name string
	if ci.Name != nil {
		name = ci.Name.last()
	}

	if ci.Unique {
		t.model.UniqueConstraints = append(t.model.UniqueConstraints, core.UniqueConstraint{Fields: fields, Name: name})
	} else {
		t.model.Indexes = append(t.model.Indexes, core.IndexConstraint{Fields: fields, Name: name})
	}
	return nil
}

func (b *builder) alterTable(at *alterTable) error {
	t := b.lookup(at.Table.last())
	if t == nil {
		return b.errorf(at.Table.Pos, "alter of unknown table %q", at.Table.last())
	}

	for _, action := range at.Actions {
		switch {
		case action.Column != nil:
			if err := b.addColumn(t, action.Column); err != nil {
				return err
			}
		case action.Constraint != nil:
			if err := b.addConstraint(t, action.Constraint); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) addColumn(t *table, col *columnDef) error {
	name := unquote(col.Name)
	if t.model.HasField(name) {
		return b.errorf(col.Pos, "duplicate column %q in table %q", name, t.model.Name)
	}

	field := core.FieldContract{Name: name, Type: untypedColumn, IsNullable: true}
	if col.Type != nil {
		field.Type = contract.CanonicalSQLType(col.Type.text())
		field.IsList = col.Type.isList()
		field.HasDefault = col.Type.isSerial()
	}

	for _, c := range col.Constraints {
		switch {
		case c.NotNull:
			field.IsNullable = false
		case c.Null:
			field.IsNullable = true
		case c.Default != nil, c.Identity:
			field.HasDefault = true
		case c.PrimaryKey:
			if t.model.PrimaryKey != nil {
				return b.errorf(c.Pos, "table %q has more than one primary key", t.model.Name)
			}
			t.model.PrimaryKey = &core.PrimaryKeyConstraint{Fields: []string{name}}
			field.IsNullable = false
		case c.Unique:
			t.model.UniqueConstraints = append(t.model.UniqueConstraints, core.UniqueConstraint{
				Fields: []string{name},
				Name:   unquote(c.Name),
			})
		case c.References != nil:
			fk, err := b.foreignKey(t, c.Pos, []string{name}, c.References)
			if err != nil {
				return err
			}
			fk.Name = unquote(c.Name)
			b.appendForeignKey(t, fk)
		}
	}

	t.model.Fields = append(t.model.Fields, field)
	return nil
}

func (b *builder) addConstraint(t *table, tc *tableConstraint) error {
	name := unquote(tc.Name)

	switch {
	case tc.PrimaryKey != nil:
		if t.model.PrimaryKey != nil {
			return b.errorf(tc.Pos, "table %q has more than one primary key", t.model.Name)
		}
		fields, ok, err := b.keyFields(t, tc.Pos, tc.PrimaryKey.Columns)
		if err != nil || !ok {
			return err
		}
		t.model.PrimaryKey = &core.PrimaryKeyConstraint{Fields: fields}
		for i := range t.model.Fields {
			if slices.Contains(fields, t.model.Fields[i].Name) {
				t.model.Fields[i].IsNullable = false
			}
		}

	case tc.Unique != nil:
		fields, ok, err := b.keyFields(t, tc.Pos, tc.Unique.Columns)
		if err != nil || !ok {
			return err
		}
		if name == "" {
			name = unquote(tc.Unique.Name)
		}
		t.model.UniqueConstraints = append(t.model.UniqueConstraints, core.UniqueConstraint{Fields: fields, Name: name})

	case tc.Index != nil:
		fields, ok, err := b.keyFields(t, tc.Pos, tc.Index.Columns)
		if err != nil || !ok {
			return err
		}
		t.model.Indexes = append(t.model.Indexes, core.IndexConstraint{Fields: fields, Name: unquote(tc.Index.Name)})

	case tc.ForeignKey != nil:
		fields, err := b.columns(t, tc.Pos, tc.ForeignKey.Columns)
		if err != nil {
			return err
		}
		fk, err := b.foreignKey(t, tc.Pos, fields, tc.ForeignKey.References)
		if err != nil {
			return err
		}
		fk.Name = name
		if fk.Name == "" {
			fk.Name = unquote(tc.ForeignKey.Name)
		}
		b.appendForeignKey(t, fk)
	}
	return nil
}

func (b *builder) foreignKey(t *table, pos lexer.Position, fields []string, ref *references) (core.ForeignKeyConstraint, error) {
	fk := core.ForeignKeyConstraint{
		Fields:          fields,
		ReferencedModel: ref.Table.last(),
	}
	if target := b.lookup(fk.ReferencedModel); target != nil {
		fk.ReferencedModel = target.model.Name
	}

	for _, col := range ref.Columns {
		fk.ReferencedFields = append(fk.ReferencedFields, unquote(col))
	}
	if len(fk.ReferencedFields) > 0 && len(fk.ReferencedFields) != len(fields) {
		return fk, b.errorf(pos, "foreign key on %s(%s) references %d columns",
			t.model.Name, core.FieldList(fields), len(fk.ReferencedFields))
	}

	for _, a := range ref.Actions {
		action, ok := contract.ParseAction(a.Action)
		if !ok {
			return fk, b.errorf(pos, "unknown referential action %q", a.Action)
		}
		if strings.EqualFold(a.Event, "DELETE") {
			fk.OnDelete = action
		} else {
			fk.OnUpdate = action
		}
	}
	return fk, nil
}

func (b *builder) appendForeignKey(t *table, fk core.ForeignKeyConstraint) {
	if len(fk.ReferencedFields) == 0 {
		t.implicit = append(t.implicit, len(t.model.ForeignKeys))
	}
	t.model.ForeignKeys = append(t.model.ForeignKeys, fk)
}

// keyFields resolves the columns of a key or index. ok is false when the
// key contains an expression; such keys are not field sets and are skipped.
func (b *builder) keyFields(t *table, pos lexer.Position, cols []*keyColumn) ([]string, bool, error) {
	names := make([]string, 0, len(cols))
	for _, col := range cols {
		if col.isExpression() {
			return nil, false, nil
		}
		names = append(names, col.Name)
	}
	fields, err := b.columns(t, pos, names)
	return fields, err == nil, err
}

// columns maps column references to declared column names.
func (b *builder) columns(t *table, pos lexer.Position, names []string) ([]string, error) {
	fields := make([]string, 0, len(names))
	for _, raw := range names {
		name := unquote(raw)
		field := t.field(name)
		if field == "" {
			return nil, b.errorf(pos, "unknown column %q in table %q", name, t.model.Name)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// contract resolves foreign keys that omitted their referenced columns to
// the referenced table's primary key, or "id" when it has none.
func (b *builder) contract() *core.Contract {
	c := &core.Contract{Models: make([]core.ModelContract, 0, len(b.order))}
	for _, t := range b.order {
		for _, i := range t.implicit {
			fk := &t.model.ForeignKeys[i]
			fk.ReferencedFields = []string{"id"}
			if target := b.lookup(fk.ReferencedModel); target != nil && target.model.PrimaryKey != nil {
				fk.ReferencedFields = slices.Clone(target.model.PrimaryKey.Fields)
			}
		}
		c.Models = append(c.Models, t.model)
	}
	return c
}

func (t *table) field(name string) string {
	for _, f := range t.model.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Name
		}
	}
	return ""
}

func (n *qualifiedName) last() string {
	return unquote(n.Parts[len(n.Parts)-1])
}

// untypedColumn is the vendor type of a column declared without a type,
// after SQLite's affinity for such columns.
const untypedColumn core.FieldType = "BLOB"

var serialTypes = map[string]bool{
	"serial": true, "serial2": true, "serial4": true, "serial8": true,
	"smallserial": true, "bigserial": true,
}

func (d *dataType) base() string {
	return unquote(d.Name[len(d.Name)-1])
}

func (d *dataType) text() string {
	words := append([]string{d.base()}, d.Words...)
	return strings.Join(append(words, d.Tail...), " ")
}

func (d *dataType) isList() bool {
	if len(d.Arrays) > 0 {
		return true
	}
	return slices.ContainsFunc(d.Tail, func(w string) bool { return strings.EqualFold(w, "ARRAY") })
}

func (d *dataType) isSerial() bool {
	return serialTypes[strings.ToLower(d.base())]
}

// isExpression reports whether the key column is an expression rather than a
// column, allowing a MySQL prefix length such as name(10).
func (k *keyColumn) isExpression() bool {
	if k.Name == "" {
		return true
	}
	if len(k.Extra) == 0 || k.Extra[0].Group == nil {
		return false
	}
	items := k.Extra[0].Group.Items
	return len(items) != 1 || items[0].Token == "" || !isDigits(items[0].Token)
}

func isDigits(s string) bool {
	return strings.Trim(s, "0123456789") == ""
}

// unquote strips "x", `x` and [x] quoting.
func unquote(name string) string {
	if len(name) < 2 {
		return name
	}
	switch first, last := name[0], name[len(name)-1]; {
	case first == '"' && last == '"':
		return strings.ReplaceAll(name[1:len(name)-1], `""`, `"`)
	case first == '`' && last == '`', first == '[' && last == ']':
		return name[1 : len(name)-1]
	}
	return name
}
