// Package props assigns named properties to instances through their
// setter methods.
//
// A property "size" is assigned by calling setSize when the instance can
// respond to it and by storing an instance field otherwise.
package props

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chazu/easyoop/oop"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("easyoop.props")

// SetterName returns the setter method name for a property: "set" followed
// by the property name with its first letter upper-cased.
func SetterName(property string) string {
	r, size := utf8.DecodeRuneInString(property)
	if r == utf8.RuneError {
		return ""
	}
	return "set" + string(unicode.ToUpper(r)) + property[size:]
}

// Setter resolves the setter of property on inst without calling it. It
// returns the setter name and its declared arities; -1 means any count.
func Setter(inst *oop.Instance, property string) (string, []int, bool) {
	name := SetterName(property)
	if name == "" {
		return "", nil, false
	}
	arities, ok := inst.Resolve(name)
	if !ok {
		return "", nil, false
	}
	return name, arities, true
}

// Apply assigns every property of p to inst in key order. Keys starting
// with "$" are skipped. A []any value is spread over the setter's arguments
// when the setter declares that many, or accepts any count.
func Apply(inst *oop.Instance, p map[string]any) error {
	keys := make([]string, 0, len(p))
	for k := range p {
		if !strings.HasPrefix(k, oop.DirectiveMarker) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := p[k]
		name, arities, ok := Setter(inst, k)
		if !ok {
			inst.Set(k, v)
			continue
		}
		args := []oop.Value{v}
		if list, isList := v.([]any); isList && spreads(arities, len(list)) {
			args = list
		}
		if _, err := inst.Call(name, args...); err != nil {
			return fmt.Errorf("property %q of %s: %w", k, inst, err)
		}
	}
	if len(keys) > 0 {
		log.Debugf("applied %d properties to %s", len(keys), inst)
	}
	return nil
}

func spreads(arities []int, n int) bool {
	for _, a := range arities {
		if a == -1 || a == n {
			return true
		}
	}
	return false
}

// ApplyDefaults assigns the named class-level defaults of inst's class.
// Synthesized descriptors (anonymous subclasses and private extensions) are
// skipped in favor of the class they derive from.
func ApplyDefaults(inst *oop.Instance, names ...string) error {
	cls := inst.Class()
	for cls != nil && (cls.IsAnonymous() || cls.IsPrivate()) && cls.Parent() != nil {
		cls = cls.Parent()
	}

	p := make(map[string]any)
	for _, name := range names {
		if v, ok := cls.Static(name); ok {
			p[name] = v
		}
	}
	if len(p) == 0 {
		return nil
	}
	return Apply(inst, p)
}
