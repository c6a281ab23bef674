package trace

import "strings"

// enumNames maps the small integer enums of this package to their
// spellings, indexed by value.
type enumNames []string

func (n enumNames) name(v uint8) string {
	if int(v) < len(n) && n[v] != "" {
		return n[v]
	}
	return "unknown"
}

func (n enumNames) parse(s string) (uint8, bool) {
	s = strings.TrimSpace(s)
	for i, name := range n {
		if name != "" && strings.EqualFold(name, s) {
			return uint8(i), true
		}
	}
	return 0, false
}

func (n enumNames) expected() string {
	names := make([]string, 0, len(n))
	for _, name := range n {
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}
