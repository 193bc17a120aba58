// Package namespace hosts named registries of packages, classes and
// environment values on top of the oop core.
//
// A Namespace owns a tree of dotted packages ("ui", "ui.event") and a flat
// environment map. Packages hold arbitrary members; class descriptors among
// them receive hierarchical display names from Complete.
package namespace

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/chazu/easyoop/oop"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("easyoop.namespace")

var (
	// ErrConflict reports a package path colliding with a non-package member.
	ErrConflict = errors.New("name conflict")

	// ErrNotFound reports a missing namespace, package or class.
	ErrNotFound = errors.New("not found")
)

var (
	registryMu sync.Mutex
	registry   = make(map[string]*Namespace)

	// namingMu guards display names of descriptors shared between namespaces.
	namingMu sync.Mutex
)

// Namespace is a named registry of packages.
type Namespace struct {
	name string

	mu       sync.RWMutex
	env      map[string]any
	packages map[string]*Package // keyed by full dotted path
}

// Package is one node of a namespace's package tree.
type Package struct {
	ns      *Namespace
	name    string
	members map[string]any
}

// New returns the namespace called name, creating it on first use.
func New(name string) (*Namespace, error) {
	if name == "" {
		return nil, fmt.Errorf("invalid namespace name %q", name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()

	if ns, ok := registry[name]; ok {
		return ns, nil
	}
	ns := &Namespace{
		name:     name,
		env:      make(map[string]any),
		packages: make(map[string]*Package),
	}
	registry[name] = ns
	log.Debugf("created namespace %s", name)
	return ns, nil
}

// Get returns an existing namespace without creating one.
func Get(name string) (*Namespace, error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	ns, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("namespace %q: %w", name, ErrNotFound)
	}
	return ns, nil
}

// Name returns the namespace name.
func (ns *Namespace) Name() string {
	return ns.name
}

// Env returns a copy of the environment.
func (ns *Namespace) Env() map[string]any {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	out := make(map[string]any, len(ns.env))
	for k, v := range ns.env {
		out[k] = v
	}
	return out
}

// SetEnv merges values into the environment.
func (ns *Namespace) SetEnv(values map[string]any) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	for k, v := range values {
		ns.env[k] = v
	}
}

// Package returns the package at the dotted path, creating every missing
// segment. A segment already used by a non-package member is a conflict.
func (ns *Namespace) Package(path string) (*Package, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if p, ok := ns.packages[path]; ok {
		return p, nil
	}
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("invalid package name %q", path)
		}
	}

	var parent *Package
	for i, s := range segments {
		full := strings.Join(segments[:i+1], ".")
		p, ok := ns.packages[full]
		if !ok {
			if parent != nil {
				if m, taken := parent.members[s]; taken {
					return nil, fmt.Errorf("package %q conflicts with member %q (%T): %w", path, full, m, ErrConflict)
				}
			}
			p = &Package{ns: ns, name: full, members: make(map[string]any)}
			ns.packages[full] = p
			if parent != nil {
				parent.members[s] = p
			}
			log.Debugf("created package %s.%s", ns.name, full)
		}
		parent = p
	}
	return parent, nil
}

// Lookup returns an existing package.
func (ns *Namespace) Lookup(path string) (*Package, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	p, ok := ns.packages[path]
	return p, ok
}

// Packages returns every package, nested ones included, in name order.
func (ns *Namespace) Packages() []*Package {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return ns.sortedPackages()
}

func (ns *Namespace) sortedPackages() []*Package {
	out := make([]*Package, 0, len(ns.packages))
	for _, p := range ns.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Import returns the exported members of the named packages, or of every
// package when none are named. Exported members are those whose names do not
// start with "$" or "_", sub-packages excluded. Members of later packages in
// name order win on clashes.
func (ns *Namespace) Import(packages ...string) (map[string]any, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	var selected []*Package
	if len(packages) == 0 {
		selected = ns.sortedPackages()
	} else {
		var unknown []string
		for _, name := range packages {
			p, ok := ns.packages[name]
			if !ok {
				unknown = append(unknown, name)
				continue
			}
			selected = append(selected, p)
		}
		if len(unknown) > 0 {
			return nil, fmt.Errorf("unknown package(s) %s: %w", strings.Join(unknown, ","), ErrNotFound)
		}
		sort.Slice(selected, func(i, j int) bool { return selected[i].name < selected[j].name })
	}

	out := make(map[string]any)
	for _, p := range selected {
		for k, v := range p.members {
			if !exported(k) {
				continue
			}
			if _, ok := v.(*Package); ok {
				continue
			}
			out[k] = v
		}
	}
	return out, nil
}

func exported(name string) bool {
	return name != "" && name[0] != '$' && name[0] != '_'
}

// Complete assigns hierarchical display names to the class descriptors of
// every package: "pkg.Class", and "pkg.Outer.Inner" for a descriptor stored
// as a static member of another. It returns the number of names assigned.
//
// Descriptors are shared values. One registered in several namespaces, or
// under several paths, keeps the name assigned by the last Complete.
// Completions of all namespaces are serialized.
func (ns *Namespace) Complete() int {
	namingMu.Lock()
	defer namingMu.Unlock()
	ns.mu.Lock()
	defer ns.mu.Unlock()

	seen := make(map[*oop.Class]bool)
	n := 0
	var collect func(prefix string, cls *oop.Class)
	collect = func(prefix string, cls *oop.Class) {
		if seen[cls] {
			return
		}
		seen[cls] = true
		cls.SetName(prefix)
		n++
		for _, s := range cls.StaticNames() {
			if strings.HasPrefix(s, oop.DirectiveMarker) {
				continue
			}
			v, _ := cls.Static(s)
			if oop.IsClass(v) {
				collect(prefix+"."+s, v.(*oop.Class))
			}
		}
	}

	for _, p := range ns.sortedPackages() {
		for _, k := range p.names() {
			if strings.HasPrefix(k, oop.DirectiveMarker) {
				continue
			}
			if cls, ok := p.members[k].(*oop.Class); ok && oop.IsClass(cls) {
				collect(p.name+"."+k, cls)
			}
		}
	}
	log.Debugf("completed %d class names in namespace %s", n, ns.name)
	return n
}

// ForName resolves a dotted class path such as "ui.Button" or
// "ui.Outer.Inner". The longest matching package prefix wins.
func (ns *Namespace) ForName(name string) (*oop.Class, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	segments := strings.Split(name, ".")
	for i := len(segments) - 1; i >= 1; i-- {
		p, ok := ns.packages[strings.Join(segments[:i], ".")]
		if !ok {
			continue
		}
		v, ok := p.members[segments[i]]
		if !ok || !oop.IsClass(v) {
			break
		}
		cls := v.(*oop.Class)
		for _, s := range segments[i+1:] {
			sv, ok := cls.Static(s)
			if !ok || !oop.IsClass(sv) {
				return nil, fmt.Errorf("class %s: %w", name, ErrNotFound)
			}
			cls = sv.(*oop.Class)
		}
		return cls, nil
	}
	return nil, fmt.Errorf("class %s: %w", name, ErrNotFound)
}

// Name returns the full dotted path of the package.
func (p *Package) Name() string {
	return p.name
}

// Put stores a member. Sub-package slots cannot be overwritten.
func (p *Package) Put(name string, v any) error {
	if name == "" || strings.Contains(name, ".") {
		return fmt.Errorf("invalid member name %q", name)
	}
	p.ns.mu.Lock()
	defer p.ns.mu.Unlock()

	if old, ok := p.members[name]; ok {
		if _, isPkg := old.(*Package); isPkg {
			return fmt.Errorf("member %q conflicts with package %s.%s: %w", name, p.name, name, ErrConflict)
		}
	}
	p.members[name] = v
	return nil
}

// Get returns a member.
func (p *Package) Get(name string) (any, bool) {
	p.ns.mu.RLock()
	defer p.ns.mu.RUnlock()
	v, ok := p.members[name]
	return v, ok
}

// Names returns the member names in sorted order.
func (p *Package) Names() []string {
	p.ns.mu.RLock()
	defer p.ns.mu.RUnlock()
	return p.names()
}

func (p *Package) names() []string {
	out := make([]string, 0, len(p.members))
	for k := range p.members {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
