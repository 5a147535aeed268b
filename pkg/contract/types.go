package contract

import (
	"strings"

	"github.com/leapstack-labs/normaudit/pkg/core"
)

// sqlTypeNames lists lowercased SQL type names (without arguments) per canonical type.
var sqlTypeNames = []struct {
	typ   core.FieldType
	names []string
}{
	{core.FieldTypeString, []string{
		"varchar", "character varying", "char", "character", "nchar", "nvarchar",
		"national character varying", "text", "tinytext", "mediumtext", "longtext",
		"ntext", "citext", "clob", "string", "uuid", "uniqueidentifier", "enum",
		"set", "inet", "cidr", "macaddr", "xml",
	}},
	{core.FieldTypeInt, []string{
		"int", "integer", "int2", "int4", "smallint", "tinyint", "mediumint",
		"serial", "serial2", "serial4", "smallserial",
	}},
	{core.FieldTypeBigInt, []string{"bigint", "int8", "bigserial", "serial8"}},
	{core.FieldTypeFloat, []string{"real", "float", "float4", "float8", "double", "double precision"}},
	{core.FieldTypeDecimal, []string{"numeric", "decimal", "money", "smallmoney"}},
	{core.FieldTypeBoolean, []string{"bool", "boolean", "bit"}},
	{core.FieldTypeDateTime, []string{
		"timestamp", "timestamptz", "timestamp with time zone", "timestamp without time zone",
		"datetime", "datetime2", "datetimeoffset", "smalldatetime", "date", "time",
		"timetz", "time with time zone", "time without time zone",
	}},
	{core.FieldTypeJSON, []string{"json", "jsonb"}},
	{core.FieldTypeBytes, []string{
		"bytea", "blob", "tinyblob", "mediumblob", "longblob", "binary", "varbinary", "image",
	}},
}

// sqlTypes is the lookup table built from sqlTypeNames. Read-only after package initialization.
var sqlTypes = func() map[string]core.FieldType {
	m := make(map[string]core.FieldType)
	for _, group := range sqlTypeNames {
		for _, name := range group.names {
			m[name] = group.typ
		}
	}
	return m
}()

// CanonicalSQLType maps a SQL column type to its canonical category.
// Arguments such as "(255)" and modifiers such as "unsigned" are ignored.
// Unknown types keep their original spelling with arguments removed.
func CanonicalSQLType(typeName string) core.FieldType {
	base := typeName
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = base[:i] + base[strings.LastIndexByte(base, ')')+1:]
	}
	words := strings.Fields(strings.ToLower(base))
	if len(words) == 0 {
		return core.FieldType(strings.TrimSpace(typeName))
	}

	for n := len(words); n > 0; n-- {
		if t, ok := sqlTypes[strings.Join(words[:n], " ")]; ok {
			return t
		}
	}
	return core.FieldType(strings.Join(strings.Fields(base), " "))
}

// CanonicalPrismaType maps a Prisma scalar type to its canonical category.
// Prisma scalar names already match the canonical set; enum, composite and
// Unsupported types keep their declared name.
func CanonicalPrismaType(typeName string) core.FieldType {
	return core.FieldType(strings.TrimSpace(typeName))
}

// actions maps normalized action spellings to referential actions.
var actions = map[string]core.ReferentialAction{
	"CASCADE":    core.ActionCascade,
	"RESTRICT":   core.ActionRestrict,
	"NOACTION":   core.ActionNoAction,
	"SETNULL":    core.ActionSetNull,
	"SETDEFAULT": core.ActionSetDefault,
}

// ParseAction parses a referential action written in SQL ("SET NULL") or
// Prisma ("SetNull") spelling.
func ParseAction(s string) (core.ReferentialAction, bool) {
	key := strings.ToUpper(strings.NewReplacer(" ", "", "_", "", "\t", "").Replace(s))
	a, ok := actions[key]
	return a, ok
}
