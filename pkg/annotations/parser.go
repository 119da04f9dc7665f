package annotations

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/toyz/paramkit/pkg/params"
)

// Declaration is the root of a textual parameter declaration, e.g.
// query(page, required, validate=positive)
type Declaration struct {
	Pos    lexer.Position
	Source string      `parser:"@Ident"`
	Args   []*Argument `parser:"'(' ( @@ ( ',' @@ )* )? ')'"`
}

// Argument is a positional value or a key=value option
type Argument struct {
	Pos   lexer.Position
	Key   string `parser:"( @Ident '=' )?"`
	Value *Value `parser:"@@"`
}

// Value is a quoted string or a bare identifier
type Value struct {
	String *string `parser:"  @String"`
	Ident  *string `parser:"| @Ident"`
}

// Text returns the unquoted value
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return *v.String
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Option keys understood in declarations
const (
	requiredKey = "required"
	validateKey = "validate"
	ruleKey     = "rule"
	nameKey     = "name"
)

// Parser turns textual declarations into params.Declarator values
type Parser struct {
	parser     *participle.Parser[Declaration]
	validators *params.Validators
}

// NewParser creates a parser resolving validate=<name> against validators.
// A nil set falls back to params.DefaultValidators.
func NewParser(validators *params.Validators) *Parser {
	if validators == nil {
		validators = params.DefaultValidators()
	}

	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.\-]*`},
		{Name: "Punct", Pattern: `[(),=]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser := participle.MustBuild[Declaration](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)

	return &Parser{parser: parser, validators: validators}
}

// ParseAST parses text without interpreting it
func (p *Parser) ParseAST(text string) (*Declaration, error) {
	decl, err := p.parser.ParseString("", text)
	if err != nil {
		return nil, syntaxError(text, err)
	}
	return decl, nil
}

// Parse parses a declaration such as `header("x-trace", required)`
func (p *Parser) Parse(text string) (params.Declarator, error) {
	decl, err := p.ParseAST(text)
	if err != nil {
		return params.Declarator{}, err
	}
	return p.build(text, decl)
}

func (p *Parser) build(text string, decl *Declaration) (params.Declarator, error) {
	source, err := params.ParseSource(decl.Source)
	if err != nil {
		return params.Declarator{}, &params.SyntaxError{Text: text, Column: decl.Pos.Column, Cause: err}
	}

	var (
		name       string
		hasOptions bool
		opts       params.Options
		checks     []params.ValidatorFunc
	)

	fail := func(arg *Argument, format string, args ...any) (params.Declarator, error) {
		return params.Declarator{}, &params.SyntaxError{Text: text, Column: arg.Pos.Column, Cause: fmt.Errorf(format, args...)}
	}

	for _, arg := range decl.Args {
		value := arg.Value.Text()
		key := arg.Key
		if key == "" {
			// a bare "required" is a flag, anything else names the parameter
			if value == requiredKey && arg.Value.Ident != nil {
				key, value = requiredKey, "true"
			} else {
				key = nameKey
			}
		}

		switch key {
		case nameKey:
			if !source.Keyed() {
				return fail(arg, "%s() takes no name", source)
			}
			if name != "" {
				return fail(arg, "name given twice")
			}
			name = value
		case requiredKey:
			required, err := strconv.ParseBool(value)
			if err != nil {
				return fail(arg, "required must be a boolean, got %q", value)
			}
			hasOptions = true
			opts.Required = opts.Required || required
		case validateKey:
			fn, err := p.validators.Get(value)
			if err != nil {
				return params.Declarator{}, err
			}
			hasOptions = true
			checks = append(checks, fn)
		case ruleKey:
			fn, err := params.Rule(value)
			if err != nil {
				return fail(arg, "%v", err)
			}
			hasOptions = true
			checks = append(checks, fn)
		default:
			return fail(arg, "unknown option %q", key)
		}
	}

	if source.Keyed() && name == "" {
		return params.Declarator{}, &params.SyntaxError{Text: text, Column: decl.Pos.Column, Cause: fmt.Errorf("%s() needs a name", source)}
	}

	switch len(checks) {
	case 0:
	case 1:
		opts.Validator = checks[0]
	default:
		opts.Validator = params.All(checks...)
	}

	var extra []params.Options
	if hasOptions {
		extra = append(extra, opts)
	}

	switch source {
	case params.UrlSource:
		if len(checks) > 0 {
			return params.Declarator{}, &params.SyntaxError{Text: text, Column: decl.Pos.Column, Cause: errors.New("url() only accepts a name")}
		}
		// required is forced; a supplied required=false is ignored
		return params.UrlParam(name), nil
	case params.QuerySource:
		return params.Query(name, extra...), nil
	case params.HeaderSource:
		return params.Header(name, extra...), nil
	case params.BodySource:
		return params.Body(extra...), nil
	case params.RequestSource, params.ResponseSource:
		if hasOptions {
			return params.Declarator{}, &params.SyntaxError{Text: text, Column: decl.Pos.Column, Cause: fmt.Errorf("%s() takes no options", source)}
		}
		if source == params.RequestSource {
			return params.Req(), nil
		}
		return params.Res(), nil
	}
	return params.Declarator{}, &params.SyntaxError{Text: text, Cause: fmt.Errorf("unsupported source %s", source)}
}

func syntaxError(text string, err error) error {
	column := 0
	var perr participle.Error
	if errors.As(err, &perr) {
		column = perr.Position().Column
	}
	return &params.SyntaxError{Text: text, Column: column, Cause: err}
}

// MustParse is like Parse but panics on error. Intended for package-level
// declarations evaluated once at startup.
func (p *Parser) MustParse(text string) params.Declarator {
	d, err := p.Parse(text)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseAll parses a declaration per parameter position, in order
func (p *Parser) ParseAll(texts ...string) ([]params.Binding, error) {
	bindings := make([]params.Binding, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" || text == "_" {
			continue
		}
		d, err := p.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		bindings = append(bindings, params.At(i, d))
	}
	return bindings, nil
}
