// Package style models named CSS style profiles and stores them as JSON
// files in a styles directory.
//
// A profile file looks like:
//
//	{
//	    "name": "Basic",
//	    "css": {
//	        "body": {
//	            "font-size": "14px"
//	        }
//	    }
//	}
//
// Selector and property order is significant for the CSS cascade and is
// preserved through load and save.
package style

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrMalformed is returned for profile files that are not a JSON object of
// the expected shape.
var ErrMalformed = errors.New("malformed style profile")

// Property is a single CSS declaration.
type Property struct {
	Name  string
	Value string
}

// Rule is a selector and its declarations, in order.
type Rule struct {
	Selector   string
	Properties []Property
}

// Sheet is an ordered list of rules.
type Sheet []Rule

// Field is a top-level profile key the model does not interpret. Extra
// fields are carried through load and save unchanged.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Profile is a named style sheet.
type Profile struct {
	Name  string
	CSS   Sheet
	Extra []Field

	// Path is the file the profile was loaded from. It is never written
	// into the file.
	Path string
}

// FileName returns the base name of Path, or "" for unsaved profiles.
func (p Profile) FileName() string {
	if p.Path == "" {
		return ""
	}
	return filepath.Base(p.Path)
}

// DisplayName returns Name, falling back to the file name.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.FileName()
}

// Rule returns the rule for selector.
func (s Sheet) Rule(selector string) (Rule, bool) {
	for _, r := range s {
		if r.Selector == selector {
			return r, true
		}
	}
	return Rule{}, false
}

// Value returns the value of prop under selector.
func (s Sheet) Value(selector, prop string) (string, bool) {
	r, ok := s.Rule(selector)
	if !ok {
		return "", false
	}
	for _, p := range r.Properties {
		if p.Name == prop {
			return p.Value, true
		}
	}
	return "", false
}

// Set assigns prop under selector, keeping the position of an existing
// rule or declaration and appending new ones.
func (s *Sheet) Set(selector, prop, value string) {
	for i := range *s {
		r := &(*s)[i]
		if r.Selector != selector {
			continue
		}
		for j := range r.Properties {
			if r.Properties[j].Name == prop {
				r.Properties[j].Value = value
				return
			}
		}
		r.Properties = append(r.Properties, Property{Name: prop, Value: value})
		return
	}
	*s = append(*s, Rule{Selector: selector, Properties: []Property{{Name: prop, Value: value}}})
}

// Remove deletes the rule for selector.
func (s *Sheet) Remove(selector string) bool {
	for i, r := range *s {
		if r.Selector == selector {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the sheet.
func (s Sheet) Clone() Sheet {
	if s == nil {
		return nil
	}
	out := make(Sheet, len(s))
	for i, r := range s {
		out[i] = Rule{
			Selector:   r.Selector,
			Properties: append([]Property(nil), r.Properties...),
		}
	}
	return out
}

// MarshalJSON writes the sheet as an object of objects in rule order.
func (s Sheet) MarshalJSON() ([]byte, error) {
	rules := orderedmap.New[string, *orderedmap.OrderedMap[string, string]](
		orderedmap.WithCapacity[string, *orderedmap.OrderedMap[string, string]](len(s)),
		orderedmap.WithDisableHTMLEscape[string, *orderedmap.OrderedMap[string, string]](),
	)
	for _, r := range s {
		props := orderedmap.New[string, string](
			orderedmap.WithCapacity[string, string](len(r.Properties)),
			orderedmap.WithDisableHTMLEscape[string, string](),
		)
		for _, p := range r.Properties {
			props.Set(p.Name, p.Value)
		}
		rules.Set(r.Selector, props)
	}
	return rules.MarshalJSON()
}

// UnmarshalJSON reads an object of objects, keeping key order. Scalar
// property values are kept as their JSON text, strings unquoted. A repeated
// key replaces the earlier value in place.
func (s *Sheet) UnmarshalJSON(data []byte) error {
	rules := orderedmap.New[string, *orderedmap.OrderedMap[string, json.RawMessage]]()
	if err := rules.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var sheet Sheet
	for rule := rules.Oldest(); rule != nil; rule = rule.Next() {
		if rule.Value == nil {
			return fmt.Errorf("%w: selector %q: expected an object", ErrMalformed, rule.Key)
		}
		r := Rule{Selector: rule.Key, Properties: make([]Property, 0, rule.Value.Len())}
		for prop := rule.Value.Oldest(); prop != nil; prop = prop.Next() {
			value, err := scalarText(prop.Value)
			if err != nil {
				return fmt.Errorf("%s %s: %w", rule.Key, prop.Key, err)
			}
			r.Properties = append(r.Properties, Property{Name: prop.Key, Value: value})
		}
		sheet = append(sheet, r)
	}

	*s = sheet
	return nil
}

// MarshalJSON writes name, css and any extra fields, in that order.
func (p Profile) MarshalJSON() ([]byte, error) {
	fields := orderedmap.New[string, any](
		orderedmap.WithCapacity[string, any](len(p.Extra)+2),
		orderedmap.WithDisableHTMLEscape[string, any](),
	)
	fields.Set("name", p.Name)
	fields.Set("css", p.CSS)
	for _, f := range p.Extra {
		fields.Set(f.Key, f.Value)
	}
	return fields.MarshalJSON()
}

// UnmarshalJSON reads a profile object. Path is left untouched.
func (p *Profile) UnmarshalJSON(data []byte) error {
	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	out := Profile{Path: p.Path}
	for field := fields.Oldest(); field != nil; field = field.Next() {
		switch field.Key {
		case "name":
			if err := json.Unmarshal(field.Value, &out.Name); err != nil {
				return fmt.Errorf("%w: name: %w", ErrMalformed, err)
			}
		case "css":
			if err := out.CSS.UnmarshalJSON(field.Value); err != nil {
				return fmt.Errorf("css: %w", err)
			}
		case pathKey:
			// Written by older versions; never part of the profile.
		default:
			out.Extra = append(out.Extra, Field{Key: field.Key, Value: field.Value})
		}
	}

	*p = out
	return nil
}

const pathKey = "_filepath"

func scalarText(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("%w: property value must be a scalar, got %s", ErrMalformed, raw)
	}
}
