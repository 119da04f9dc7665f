package annotations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toyz/paramkit/pkg/params"
)

// CommentPrefix marks a parameter declaration in a method's doc comment:
//
//	//param:: page query(page, validate=positive)
//	//param:: 0 url(id)
const CommentPrefix = "param::"

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	if s.Line == 0 {
		return s.File
	}
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// CommentAnnotation is a parsed //param:: comment
type CommentAnnotation struct {
	Param      string // parameter name, empty when selected by index
	Index      int    // parameter index, -1 when selected by name
	Text       string // declaration text after the selector
	Declarator params.Declarator
	Location   SourceLocation
	Raw        string
}

// IsAnnotation reports whether comment carries a //param:: declaration
func IsAnnotation(comment string) bool {
	content := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(comment), "//"))
	return strings.HasPrefix(content, CommentPrefix)
}

// ParseComment parses `//param:: <selector> <declaration>`
func (p *Parser) ParseComment(comment string, location SourceLocation) (*CommentAnnotation, error) {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, "//") {
		return nil, fmt.Errorf("annotation must start with '//'")
	}
	content := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
	if !strings.HasPrefix(content, CommentPrefix) {
		return nil, fmt.Errorf("annotation must contain '%s' prefix", CommentPrefix)
	}
	content = strings.TrimSpace(strings.TrimPrefix(content, CommentPrefix))

	selector, text, ok := strings.Cut(content, " ")
	text = strings.TrimSpace(text)
	if !ok || selector == "" || text == "" {
		return nil, &params.SyntaxError{Text: comment, Cause: fmt.Errorf("expected '//%s <param> <declaration>'", CommentPrefix)}
	}

	d, err := p.Parse(text)
	if err != nil {
		return nil, err
	}

	ann := &CommentAnnotation{
		Index:      -1,
		Text:       text,
		Declarator: d,
		Location:   location,
		Raw:        comment,
	}
	if idx, err := strconv.Atoi(selector); err == nil {
		ann.Index = idx
	} else {
		ann.Param = selector
	}
	return ann, nil
}

// ResolveIndex maps the annotation's selector onto a parameter position
// given the method's parameter names
func (a *CommentAnnotation) ResolveIndex(paramNames []string) (int, error) {
	if a.Param == "" {
		return a.Index, nil
	}
	for i, name := range paramNames {
		if name == a.Param {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s: no parameter named %q", a.Location, a.Param)
}
