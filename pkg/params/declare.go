package params

// Declarator is a pending parameter declaration. It becomes a Descriptor once
// applied to a concrete (owner, method, index).
type Declarator struct {
	source  Source
	name    string
	options *Options
}

// Binding pairs a declarator with the parameter position it annotates
type Binding struct {
	Index      int
	Declarator Declarator
}

// At binds d to parameter position index
func At(index int, d Declarator) Binding {
	return Binding{Index: index, Declarator: d}
}

func declare(source Source, name string, options *Options) Declarator {
	return Declarator{source: source, name: name, options: options.clone()}
}

// Source returns the extraction source of the declaration
func (d Declarator) Source() Source { return d.source }

// Name returns the binding name of the declaration
func (d Declarator) Name() string { return d.name }

// Options returns a copy of the declared options, nil when absent
func (d Declarator) Options() *Options { return d.options.clone() }

// ApplyTo attaches the declaration to parameter index of method on owner
func (d Declarator) ApplyTo(r *Registry, owner any, method string, index int) error {
	return r.Apply(owner, method, index, d)
}

func (d Declarator) descriptor(ref TypeRef, index int) Descriptor {
	return Descriptor{
		Source:  d.source,
		Name:    d.name,
		Type:    ref,
		Index:   index,
		Options: d.options.clone(),
	}
}

// Query binds the parameter to the query-string value called name
func Query(name string, opts ...Options) Declarator {
	return declare(QuerySource, name, mergeOptions(opts))
}

// UrlParam binds the parameter to the URL path segment called name.
// URL segments are always required.
func UrlParam(name string) Declarator {
	return declare(UrlSource, name, &Options{Required: true})
}

// Body binds the parameter to the request body
func Body(opts ...Options) Declarator {
	return declare(BodySource, BodyName, mergeOptions(opts))
}

// Req binds the parameter to the raw request object
func Req() Declarator {
	return declare(RequestSource, RequestName, nil)
}

// Res binds the parameter to the raw response object
func Res() Declarator {
	return declare(ResponseSource, ResponseName, nil)
}

// Header binds the parameter to the HTTP header called name
func Header(name string, opts ...Options) Declarator {
	return declare(HeaderSource, name, mergeOptions(opts))
}
