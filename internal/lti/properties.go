package lti

// Property is a single lticm:property name/value pair.
type Property struct {
	Name  string
	Value string
}

// Properties is an insertion-ordered property mapping.
// Document order follows slice order, never key order.
type Properties []Property

// Get returns the value stored under name.
func (ps Properties) Get(name string) (string, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether name is present.
func (ps Properties) Has(name string) bool {
	_, ok := ps.Get(name)
	return ok
}

// Set replaces the value of an existing name in place or appends a new pair.
func (ps Properties) Set(name, value string) Properties {
	for i := range ps {
		if ps[i].Name == name {
			ps[i].Value = value
			return ps
		}
	}
	return append(ps, Property{Name: name, Value: value})
}

// Clone returns a copy with duplicate names collapsed: a repeated name keeps
// its first position and takes the last value.
func (ps Properties) Clone() Properties {
	out := make(Properties, 0, len(ps))
	for _, p := range ps {
		out = out.Set(p.Name, p.Value)
	}
	return out
}
