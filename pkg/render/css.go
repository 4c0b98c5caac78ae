package render

import (
	"strings"

	"github.com/yaklabco/mdpane/pkg/style"
)

// StyleToCSS renders a profile's sheet as CSS text:
//
//	selector {
//	    prop: value;
//	}
//
// with a blank line between rules. An empty sheet renders as "".
func StyleToCSS(p style.Profile) string {
	rules := make([]string, 0, len(p.CSS))
	for _, r := range p.CSS {
		decls := make([]string, len(r.Properties))
		for i, prop := range r.Properties {
			decls[i] = prop.Name + ": " + prop.Value + ";"
		}
		rules = append(rules, r.Selector+" {\n    "+strings.Join(decls, "\n    ")+"\n}")
	}
	return strings.Join(rules, "\n\n")
}
