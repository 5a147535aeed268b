package core

import "strings"

// =============================================================================
// Field types
// =============================================================================

// FieldType is the canonical scalar category of a field.
// Values outside the canonical set carry the original vendor type name.
type FieldType string

// Canonical field types shared by every schema format.
const (
	FieldTypeString   FieldType = "String"
	FieldTypeInt      FieldType = "Int"
	FieldTypeBigInt   FieldType = "BigInt"
	FieldTypeFloat    FieldType = "Float"
	FieldTypeDecimal  FieldType = "Decimal"
	FieldTypeBoolean  FieldType = "Boolean"
	FieldTypeDateTime FieldType = "DateTime"
	FieldTypeJSON     FieldType = "Json"
	FieldTypeBytes    FieldType = "Bytes"
)

// IsCanonical reports whether t is one of the canonical categories.
func (t FieldType) IsCanonical() bool {
	switch t {
	case FieldTypeString, FieldTypeInt, FieldTypeBigInt, FieldTypeFloat, FieldTypeDecimal,
		FieldTypeBoolean, FieldTypeDateTime, FieldTypeJSON, FieldTypeBytes:
		return true
	}
	return false
}

// =============================================================================
// Referential actions
// =============================================================================

// ReferentialAction is the ON DELETE / ON UPDATE behavior of a foreign key.
type ReferentialAction string

// Referential actions. NoAction applies when none is declared.
const (
	ActionCascade    ReferentialAction = "Cascade"
	ActionRestrict   ReferentialAction = "Restrict"
	ActionNoAction   ReferentialAction = "NoAction"
	ActionSetNull    ReferentialAction = "SetNull"
	ActionSetDefault ReferentialAction = "SetDefault"
)

// OrDefault returns a, or ActionNoAction when a is empty.
func (a ReferentialAction) OrDefault() ReferentialAction {
	if a == "" {
		return ActionNoAction
	}
	return a
}

// =============================================================================
// Contract
// =============================================================================

// Contract is the parser-independent description of a schema.
// After contract.Normalize, Models are sorted by name and names are unique.
type Contract struct {
	Models []ModelContract `json:"models"`
}

// Model returns the model with the given name.
func (c *Contract) Model(name string) (*ModelContract, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Models {
		if c.Models[i].Name == name {
			return &c.Models[i], true
		}
	}
	return nil, false
}

// ModelContract describes one table or model.
type ModelContract struct {
	Name              string                 `json:"name"`
	Fields            []FieldContract        `json:"fields"`
	PrimaryKey        *PrimaryKeyConstraint  `json:"primaryKey"`
	UniqueConstraints []UniqueConstraint     `json:"uniqueConstraints"`
	Indexes           []IndexConstraint      `json:"indexes"`
	ForeignKeys       []ForeignKeyConstraint `json:"foreignKeys"`
}

// Field returns the field with the given name.
func (m *ModelContract) Field(name string) (*FieldContract, bool) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i], true
		}
	}
	return nil, false
}

// HasField reports whether the model declares a field with the given name.
func (m *ModelContract) HasField(name string) bool {
	_, ok := m.Field(name)
	return ok
}

// FieldNames returns field names in declaration order.
func (m *ModelContract) FieldNames() []string {
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldContract describes one column.
type FieldContract struct {
	Name       string    `json:"name"`
	Type       FieldType `json:"type"`
	IsNullable bool      `json:"isNullable"`
	HasDefault bool      `json:"hasDefault"`
	IsList     bool      `json:"isList"`
}

// PrimaryKeyConstraint is the declared primary key of a model.
type PrimaryKeyConstraint struct {
	Fields      []string `json:"fields"`
	IsComposite bool     `json:"isComposite"`
	Name        string   `json:"name,omitempty"`
}

// UniqueConstraint is a declared uniqueness guarantee.
type UniqueConstraint struct {
	Fields      []string `json:"fields"`
	IsComposite bool     `json:"isComposite"`
	Name        string   `json:"name,omitempty"`
}

// IndexConstraint is a plain (non-unique) index.
type IndexConstraint struct {
	Fields []string `json:"fields"`
	Name   string   `json:"name,omitempty"`
}

// ForeignKeyConstraint links local fields to fields of another model.
// Fields and ReferencedFields correspond positionally.
type ForeignKeyConstraint struct {
	Fields           []string          `json:"fields"`
	ReferencedModel  string            `json:"referencedModel"`
	ReferencedFields []string          `json:"referencedFields"`
	OnDelete         ReferentialAction `json:"onDelete"`
	OnUpdate         ReferentialAction `json:"onUpdate"`
	Name             string            `json:"name,omitempty"`
}

// FieldList joins field names the way findings and sort keys render them.
func FieldList(fields []string) string {
	return strings.Join(fields, ",")
}
