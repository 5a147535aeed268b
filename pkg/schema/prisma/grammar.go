package prisma

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var prismaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?`},
	{Name: "BlockAttr", Pattern: `@@`},
	{Name: "At", Pattern: `@`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[{}\[\]().,:=?!]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var prismaParser = participle.MustBuild[schemaFile](
	participle.Lexer(prismaLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(4),
)

// schemaFile is the root of a Prisma schema.
type schemaFile struct {
	Blocks []*block `parser:"@@*"`
}

type block struct {
	Model  *modelBlock  `parser:"  @@"`
	Enum   *enumBlock   `parser:"| @@"`
	Config *configBlock `parser:"| @@"`
}

// modelBlock covers model, view and composite type declarations.
type modelBlock struct {
	Pos     lexer.Position
	Kind    string       `parser:"@( 'model' | 'view' | 'type' )"`
	Name    string       `parser:"@Ident '{'"`
	Members []*modelItem `parser:"@@* '}'"`
}

type modelItem struct {
	BlockAttribute *attribute `parser:"  BlockAttr @@"`
	Field          *field     `parser:"| @@"`
}

type field struct {
	Pos        lexer.Position
	Name       string       `parser:"@Ident"`
	Type       fieldType    `parser:"@@"`
	Attributes []*attribute `parser:"( At @@ )*"`
}

type fieldType struct {
	Name        string  `parser:"@Ident"`
	Unsupported *string `parser:"( '(' @String ')' )?"`
	List        bool    `parser:"( @'[' ']' )?"`
	Optional    bool    `parser:"@'?'?"`
}

// attribute is the part of @name(...) or @@name(...) after the sigil.
type attribute struct {
	Pos  lexer.Position
	Name string      `parser:"@Ident ( @'.' @Ident )?"`
	Args []*argument `parser:"( '(' ( @@ ( ',' @@ )* ','? )? ')' )?"`
}

type argument struct {
	Name  string `parser:"( @Ident ':' )?"`
	Value *value `parser:"@@"`
}

type value struct {
	String *string     `parser:"  @String"`
	Number *string     `parser:"| @Number"`
	Array  *arrayValue `parser:"| @@"`
	Call   *call       `parser:"| @@"`
}

type arrayValue struct {
	Items []*value `parser:"'[' ( @@ ( ',' @@ )* ','? )? ']'"`
}

// call is an identifier, optionally invoked: Cascade, now(), title(sort: Desc).
type call struct {
	Name string      `parser:"@Ident ( @'.' @Ident )*"`
	Args []*argument `parser:"( '(' ( @@ ( ',' @@ )* ','? )? ')' )?"`
}

type enumBlock struct {
	Pos     lexer.Position
	Name    string      `parser:"'enum' @Ident '{'"`
	Members []*enumItem `parser:"@@* '}'"`
}

type enumItem struct {
	BlockAttribute *attribute   `parser:"  BlockAttr @@"`
	Value          string       `parser:"| @Ident"`
	Attributes     []*attribute `parser:"( At @@ )*"`
}

// configBlock covers datasource and generator blocks.
type configBlock struct {
	Kind    string         `parser:"@( 'datasource' | 'generator' )"`
	Name    string         `parser:"@Ident '{'"`
	Entries []*configEntry `parser:"@@* '}'"`
}

type configEntry struct {
	Key   string `parser:"@Ident '='"`
	Value *value `parser:"@@"`
}
