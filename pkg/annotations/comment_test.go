package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/paramkit/pkg/params"
)

func TestIsAnnotation(t *testing.T) {
	assert.True(t, IsAnnotation("//param:: id url(id)"))
	assert.True(t, IsAnnotation("  // param:: id url(id)"))
	assert.False(t, IsAnnotation("// Get returns a user"))
	assert.False(t, IsAnnotation("//axon::route GET /users"))
}

func TestParser_ParseComment(t *testing.T) {
	parser := NewParser(nil)
	location := SourceLocation{File: "users.go", Line: 12}

	ann, err := parser.ParseComment("//param:: page query(page, validate=positive)", location)
	require.NoError(t, err)
	assert.Equal(t, "page", ann.Param)
	assert.Equal(t, -1, ann.Index)
	assert.Equal(t, "query(page, validate=positive)", ann.Text)
	assert.Equal(t, params.QuerySource, ann.Declarator.Source())
	assert.Equal(t, location, ann.Location)

	idx, err := ann.ResolveIndex([]string{"id", "page"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = ann.ResolveIndex([]string{"id"})
	assert.ErrorContains(t, err, `users.go:12: no parameter named "page"`)
}

func TestParser_ParseCommentByIndex(t *testing.T) {
	parser := NewParser(nil)

	ann, err := parser.ParseComment("// param:: 0 url(id)", SourceLocation{})
	require.NoError(t, err)
	assert.Empty(t, ann.Param)
	assert.Equal(t, 0, ann.Index)

	idx, err := ann.ResolveIndex(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestParser_ParseCommentErrors(t *testing.T) {
	parser := NewParser(nil)

	tests := []struct {
		name  string
		input string
	}{
		{name: "not a comment", input: "param:: id url(id)"},
		{name: "wrong prefix", input: "//axon::route GET /"},
		{name: "missing declaration", input: "//param:: id"},
		{name: "bad declaration", input: "//param:: id url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseComment(tt.input, SourceLocation{})
			assert.Error(t, err)
		})
	}
}

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "a.go", SourceLocation{File: "a.go"}.String())
	assert.Equal(t, "a.go:3", SourceLocation{File: "a.go", Line: 3}.String())
}
