package ddl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var ddlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*|/\*[\s\S]*?\*/|#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "DollarString", Pattern: `\$\w*\$[\s\S]*?\$\w*\$`},
	{Name: "String", Pattern: `'(''|\\.|[^'\\])*'`},
	{Name: "Array", Pattern: `\[\d*\]`},
	{Name: "QuotedIdent", Pattern: `"(""|[^"])*"|` + "`[^`]*`" + `|\[[^\]]+\]`},
	{Name: "Number", Pattern: `\d+(\.\d+)?([eE][-+]?\d+)?`},
	{Name: "Keyword", Pattern: `(?i)\b(NOT|NULL|PRIMARY|UNIQUE|DEFAULT|REFERENCES|CHECK|CONSTRAINT|COLLATE|GENERATED|AUTO_INCREMENT|AUTOINCREMENT|IDENTITY|COMMENT|ON)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_$]*`},
	{Name: "Operator", Pattern: `::|->>|->|<=|>=|<>|!=|\|\||[-+*/%<>=!~^&|:@?$]`},
	{Name: "Punct", Pattern: `[(),;.{}\[\]]`},
})

var ddlParser = participle.MustBuild[ddlFile](
	participle.Lexer(ddlLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.CaseInsensitive("Ident", "Keyword"),
	participle.UseLookahead(4),
)

// ddlFile is a sequence of statements. Statements the auditor does not
// understand are kept as raw tokens.
type ddlFile struct {
	Statements []*statement `parser:"( @@ | ';' )*"`
}

type statement struct {
	CreateTable *createTable `parser:"  @@"`
	CreateIndex *createIndex `parser:"| @@"`
	AlterTable  *alterTable  `parser:"| @@"`
	Other       []string     `parser:"| ( @~';' )+"`
}

type qualifiedName struct {
	Pos   lexer.Position
	Parts []string `parser:"@( Ident | QuotedIdent | Keyword ) ( '.' @( Ident | QuotedIdent | Keyword ) )*"`
}

type createTable struct {
	Pos      lexer.Position
	Name     *qualifiedName  `parser:"'CREATE' ( 'TEMPORARY' | 'TEMP' | 'UNLOGGED' | 'GLOBAL' | 'LOCAL' )* 'TABLE' ( 'IF' 'NOT' 'EXISTS' )? @@"`
	Elements []*tableElement `parser:"'(' @@ ( ',' @@ )* ')'"`
	Options  []string        `parser:"( @~';' )*"`
}

type tableElement struct {
	Constraint *tableConstraint `parser:"  @@"`
	Column     *columnDef       `parser:"| @@"`
}

type columnDef struct {
	Pos         lexer.Position
	Name        string              `parser:"@( Ident | QuotedIdent | Keyword )"`
	Type        *dataType           `parser:"@@?"`
	Constraints []*columnConstraint `parser:"@@*"`
}

// dataType covers multi-word and parameterized types such as
// "character varying(255)" or "timestamp(3) with time zone".
type dataType struct {
	Name   []string    `parser:"@( Ident | QuotedIdent ) ( '.' @( Ident | QuotedIdent ) )*"`
	Words  []string    `parser:"@Ident*"`
	Args   *parenGroup `parser:"@@?"`
	Tail   []string    `parser:"@Ident*"`
	Arrays []string    `parser:"@Array*"`
}

type columnConstraint struct {
	Pos        lexer.Position
	Name       string      `parser:"( 'CONSTRAINT' @( Ident | QuotedIdent ) )?"`
	NotNull    bool        `parser:"(   @( 'NOT' 'NULL' )"`
	Null       bool        `parser:"  | @'NULL'"`
	PrimaryKey bool        `parser:"  | @( 'PRIMARY' 'KEY' ) ( 'ASC' | 'DESC' )?"`
	Unique     bool        `parser:"  | @'UNIQUE' 'KEY'?"`
	Default    *junk       `parser:"  | 'DEFAULT' @@"`
	Identity   bool        `parser:"  | @( 'AUTO_INCREMENT' | 'AUTOINCREMENT' | 'IDENTITY' | 'GENERATED' )"`
	References *references `parser:"  | 'REFERENCES' @@"`
	Other      *junk       `parser:"  | @@ )"`
}

type references struct {
	Table   *qualifiedName `parser:"@@"`
	Columns []string       `parser:"( '(' @( Ident | QuotedIdent | Keyword ) ( ',' @( Ident | QuotedIdent | Keyword ) )* ')' )?"`
	Actions []*refAction   `parser:"( 'MATCH' Ident )? @@*"`
}

type refAction struct {
	Event  string `parser:"'ON' @( 'DELETE' | 'UPDATE' )"`
	Action string `parser:"@( 'CASCADE' | 'RESTRICT' | 'NO' 'ACTION' | 'SET' ( 'NULL' | 'DEFAULT' ) )"`
}

type tableConstraint struct {
	Pos        lexer.Position
	Name       string      `parser:"( 'CONSTRAINT' @( Ident | QuotedIdent ) )?"`
	PrimaryKey *keyColumns `parser:"(   'PRIMARY' 'KEY' @@"`
	Unique     *keyColumns `parser:"  | 'UNIQUE' ( 'KEY' | 'INDEX' )? @@"`
	ForeignKey *foreignKey `parser:"  | 'FOREIGN' 'KEY' @@"`
	Index      *keyColumns `parser:"  | ( 'KEY' | 'INDEX' ) @@"`
	Check      *parenGroup `parser:"  | ( 'CHECK' | 'EXCLUDE' ( 'USING' Ident )? ) @@ )"`
	Tail       []*junk     `parser:"@@*"`
}

type keyColumns struct {
	Name    string       `parser:"@( Ident | QuotedIdent )?"`
	Columns []*keyColumn `parser:"( 'CLUSTERED' | 'NONCLUSTERED' )? '(' @@ ( ',' @@ )* ')'"`
}

// keyColumn is an indexed column with optional ordering or prefix length,
// or an expression.
type keyColumn struct {
	Name  string  `parser:"@( Ident | QuotedIdent | Keyword )?"`
	Extra []*junk `parser:"@@*"`
}

type foreignKey struct {
	Name       string      `parser:"@( Ident | QuotedIdent )?"`
	Columns    []string    `parser:"'(' @( Ident | QuotedIdent | Keyword ) ( ',' @( Ident | QuotedIdent | Keyword ) )* ')'"`
	References *references `parser:"'REFERENCES' @@"`
}

type createIndex struct {
	Pos     lexer.Position
	Unique  bool           `parser:"'CREATE' @'UNIQUE'? ( 'CLUSTERED' | 'NONCLUSTERED' )? 'INDEX' 'CONCURRENTLY'? ( 'IF' 'NOT' 'EXISTS' )?"`
	Name    *qualifiedName `parser:"( 'ON' | @@ 'ON' )"`
	Table   *qualifiedName `parser:"'ONLY'? @@"`
	Using   string         `parser:"( 'USING' @Ident )?"`
	Columns []*keyColumn   `parser:"'(' @@ ( ',' @@ )* ')'"`
	Options []string       `parser:"( @~';' )*"`
}

type alterTable struct {
	Pos     lexer.Position
	Table   *qualifiedName `parser:"'ALTER' 'TABLE' ( 'IF' 'EXISTS' )? 'ONLY'? @@"`
	Actions []*alterAction `parser:"@@ ( ',' @@ )*"`
}

type alterAction struct {
	Constraint *tableConstraint `parser:"  'ADD' @@"`
	Column     *columnDef       `parser:"| 'ADD' 'COLUMN'? ( 'IF' 'NOT' 'EXISTS' )? @@"`
	Other      []*junk          `parser:"| @@+"`
}

// junk is a balanced token run that stops before ',' ')' or ';'.
type junk struct {
	Group *parenGroup `parser:"  @@"`
	Token string      `parser:"| @~( ',' | ')' | '(' | ';' )"`
}

type parenGroup struct {
	Items []*groupItem `parser:"'(' @@* ')'"`
}

type groupItem struct {
	Group *parenGroup `parser:"  @@"`
	Token string      `parser:"| @~( '(' | ')' )"`
}
