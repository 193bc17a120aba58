package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chazu/easyoop/namespace"
	"github.com/chazu/easyoop/oop"
)

// writeTree prints every package of ns with its class descriptors, their
// parents, capabilities and dispatchable methods.
func writeTree(w io.Writer, ns *namespace.Namespace) {
	fmt.Fprintf(w, "namespace %s\n", ns.Name())

	env := ns.Env()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  env %s = %v\n", k, env[k])
	}

	for _, p := range ns.Packages() {
		fmt.Fprintf(w, "  package %s\n", p.Name())
		for _, name := range p.Names() {
			v, _ := p.Get(name)
			cls, ok := v.(*oop.Class)
			if !ok || !oop.IsClass(cls) {
				continue
			}
			writeClass(w, cls, "    ")
		}
	}
}

func writeClass(w io.Writer, cls *oop.Class, indent string) {
	kind := "class"
	if cls.IsInterface() {
		kind = "interface"
	}
	fmt.Fprintf(w, "%s%s %s", indent, kind, cls)
	if p := cls.Parent(); p != nil {
		fmt.Fprintf(w, " extends %s", p)
	}
	var ifaces []string
	for _, c := range cls.Capabilities() {
		if c.IsInterface() {
			ifaces = append(ifaces, c.String())
		}
	}
	if len(ifaces) > 0 {
		fmt.Fprintf(w, " is %s", strings.Join(ifaces, ", "))
	}
	fmt.Fprintln(w)

	for _, m := range cls.Methods() {
		name := m.Name
		if name == oop.ConstructorName {
			name = "constructor"
		}
		fmt.Fprintf(w, "%s  %s/%d\n", indent, name, m.Arity)
	}
	for _, s := range cls.StaticNames() {
		v, _ := cls.Static(s)
		if inner, ok := v.(*oop.Class); ok && oop.IsClass(inner) {
			writeClass(w, inner, indent+"  ")
		}
	}
}
