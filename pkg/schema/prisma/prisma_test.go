package prisma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/schema"
)

const blogSchema = `
datasource db {
  provider = "postgresql"
  url      = env("DATABASE_URL")
}

generator client {
  provider        = "prisma-client-js"
  previewFeatures = ["fullTextSearch"]
}

/// A registered author.
model User {
  id        Int      @id @default(autoincrement())
  email     String   @unique @db.VarChar(255)
  name      String?
  role      Role     @default(USER)
  settings  Json?
  createdAt DateTime @default(now())
  updatedAt DateTime @updatedAt
  posts     Post[]
}

model Post {
  id       Int    @id @default(autoincrement())
  title    String
  authorId Int
  author   User   @relation(fields: [authorId], references: [id], onDelete: Cascade, onUpdate: NoAction)
  tags     String[]

  @@index([title(sort: Desc), authorId], map: "post_title_idx")
}

enum Role {
  USER
  ADMIN @map("admin")

  @@map("roles")
}
`

func build(t *testing.T, src string) *core.Contract {
	t.Helper()
	c, err := schema.Build(Builder{}, "schema.prisma", []byte(src))
	require.NoError(t, err)
	return c
}

// model returns the named model of c, failing the test when it is missing.
func model(t *testing.T, c *core.Contract, name string) *core.ModelContract {
	t.Helper()
	m, ok := c.Model(name)
	require.True(t, ok, "model %q not found", name)
	return m
}

// modelField returns the named field of m, failing the test when it is missing.
func modelField(t *testing.T, m *core.ModelContract, name string) *core.FieldContract {
	t.Helper()
	f, ok := m.Field(name)
	require.True(t, ok, "field %q not found in %s", name, m.Name)
	return f
}

func TestBuild_Blog(t *testing.T) {
	c := build(t, blogSchema)
	require.Len(t, c.Models, 2)

	post := model(t, c, "Post")
	require.NotNil(t, post)
	assert.Equal(t, []string{"authorId", "id", "tags", "title"}, post.FieldNames())
	require.NotNil(t, post.PrimaryKey)
	assert.Equal(t, []string{"id"}, post.PrimaryKey.Fields)
	assert.Equal(t, []core.IndexConstraint{{Fields: []string{"title", "authorId"}, Name: "post_title_idx"}}, post.Indexes)
	assert.Equal(t, []core.ForeignKeyConstraint{{
		Fields:           []string{"authorId"},
		ReferencedModel:  "User",
		ReferencedFields: []string{"id"},
		OnDelete:         core.ActionCascade,
		OnUpdate:         core.ActionNoAction,
	}}, post.ForeignKeys)

	tags := modelField(t, post, "tags")
	require.NotNil(t, tags)
	assert.True(t, tags.IsList)
	assert.Equal(t, core.FieldTypeString, tags.Type)

	user := model(t, c, "User")
	require.NotNil(t, user)
	assert.False(t, user.HasField("posts"), "back-relation lists are not columns")
	assert.Equal(t, []core.UniqueConstraint{{Fields: []string{"email"}}}, user.UniqueConstraints)

	tests := []struct {
		field    string
		typ      core.FieldType
		nullable bool
		def      bool
	}{
		{"id", core.FieldTypeInt, false, true},
		{"email", core.FieldTypeString, false, false},
		{"name", core.FieldTypeString, true, false},
		{"role", "Role", false, true},
		{"settings", core.FieldTypeJSON, true, false},
		{"createdAt", core.FieldTypeDateTime, false, true},
		{"updatedAt", core.FieldTypeDateTime, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := modelField(t, user, tt.field)
			require.NotNil(t, f)
			assert.Equal(t, tt.typ, f.Type)
			assert.Equal(t, tt.nullable, f.IsNullable)
			assert.Equal(t, tt.def, f.HasDefault)
		})
	}
}

func TestBuild_CompositeKeys(t *testing.T) {
	c := build(t, `
model PostTag {
  postId  Int
  tagId   Int
  addedAt DateTime @default(now())

  @@id([postId, tagId])
  @@unique(fields: [tagId, postId], name: "tag_post")
}
`)
	m := model(t, c, "PostTag")
	require.NotNil(t, m)
	require.NotNil(t, m.PrimaryKey)
	assert.Equal(t, []string{"postId", "tagId"}, m.PrimaryKey.Fields)
	assert.Equal(t, []core.UniqueConstraint{{
		Fields:      []string{"tagId", "postId"},
		IsComposite: true,
		Name:        "tag_post",
	}}, m.UniqueConstraints)
}

func TestBuild_ViewsAndTypes(t *testing.T) {
	c := build(t, `
type Address {
  street String
  city   String
}

view UserInfo {
  id      Int     @unique
  address Address
  geom    Unsupported("geometry")?
}
`)
	require.Len(t, c.Models, 1)
	m := model(t, c, "UserInfo")
	require.NotNil(t, m)
	assert.Equal(t, core.FieldType("Address"), modelField(t, m, "address").Type)
	assert.Equal(t, core.FieldType("geometry"), modelField(t, m, "geom").Type)
	assert.True(t, modelField(t, m, "geom").IsNullable)
}

func TestBuild_RelationWithoutDeclaredModel(t *testing.T) {
	c := build(t, `
model Comment {
  id       Int  @id
  postId   Int
  post     Post @relation("PostComments", fields: [postId], references: [id], onDelete: SetNull)
}
`)
	m := model(t, c, "Comment")
	require.NotNil(t, m)
	assert.False(t, m.HasField("post"))
	require.Len(t, m.ForeignKeys, 1)
	assert.Equal(t, "Post", m.ForeignKeys[0].ReferencedModel)
	assert.Equal(t, core.ActionSetNull, m.ForeignKeys[0].OnDelete)
	assert.Equal(t, core.ActionNoAction, m.ForeignKeys[0].OnUpdate)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		message string
	}{
		{
			name:    "syntax",
			src:     "model User {\n  id Int @id\n",
			message: "unexpected",
		},
		{
			name:    "duplicate model",
			src:     "model A {\n  id Int @id\n}\nmodel A {\n  id Int @id\n}\n",
			line:    4,
			message: `duplicate model "A"`,
		},
		{
			name:    "duplicate field",
			src:     "model A {\n  id Int @id\n  id String\n}\n",
			line:    3,
			message: `duplicate field "id"`,
		},
		{
			name:    "two primary keys",
			src:     "model A {\n  a Int @id\n  b Int\n  @@id([a, b])\n}\n",
			line:    4,
			message: "more than one primary key",
		},
		{
			name:    "unknown index field",
			src:     "model A {\n  id Int @id\n  @@index([missing])\n}\n",
			line:    3,
			message: `unknown field "missing"`,
		},
		{
			name:    "unknown action",
			src:     "model A {\n  id Int @id\n  bId Int\n  b B @relation(fields: [bId], references: [id], onDelete: Explode)\n}\nmodel B {\n  id Int @id\n}\n",
			line:    4,
			message: `unknown referential action "Explode"`,
		},
		{
			name:    "mismatched relation",
			src:     "model A {\n  id Int @id\n  bId Int\n  b B @relation(fields: [bId], references: [id, x])\n}\nmodel B {\n  id Int @id\n}\n",
			line:    4,
			message: "differ in length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Build(Builder{}, "schema.prisma", []byte(tt.src))
			require.Error(t, err)

			var perr *schema.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "schema.prisma", perr.File)
			assert.Contains(t, perr.Message, tt.message)
			if tt.line > 0 {
				assert.Equal(t, tt.line, perr.Line)
			} else {
				assert.Positive(t, perr.Line)
			}
		})
	}
}

func TestRegistered(t *testing.T) {
	b, err := schema.ForPath("db/schema.PRISMA")
	require.NoError(t, err)
	assert.Equal(t, "prisma", b.Format())
}
