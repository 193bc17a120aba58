package oop

// Extend attaches capabilities and members to this instance only. The
// arguments are [descriptors...] [Defs].
//
// The first call derives a private descriptor from the current one, tagged
// with Extended, and retargets the instance to it. Later calls reuse that
// descriptor. Definitions merge with the usual (name, arity) rules, so
// arities attached earlier stay callable. Constructor definitions run last,
// against the extended instance, with no arguments, and are not stored.
//
// Extend is all or nothing: on any error, a failing constructor included,
// the instance keeps its previous descriptor, members and fields.
func (i *Instance) Extend(args ...any) error {
	var defs Defs
	if n := len(args); n > 0 {
		if d, ok := args[n-1].(Defs); ok {
			defs, args = d, args[:n-1]
		}
	}

	ifaces := make([]*Class, 0, len(args))
	for idx, a := range args {
		ic, ok := a.(*Class)
		if !ok || ic == nil {
			return &UnknownInterfaceError{Index: idx, Value: a}
		}
		ifaces = append(ifaces, ic)
	}
	if err := i.checkExtension(defs); err != nil {
		return err
	}

	priv := i.ext
	undo := func() {}
	if priv == nil {
		var err error
		if priv, err = i.newPrivateClass(); err != nil {
			return err
		}
	} else {
		undo = priv.snapshot()
	}

	b := newBatch()
	var ctors []Def
	for _, d := range defs {
		if d.Name == ConstructorName {
			ctors = append(ctors, d)
			continue
		}
		if err := priv.apply(d, b); err != nil {
			undo()
			return err
		}
	}
	for _, ic := range ifaces {
		priv.addCapabilities(ic)
		if err := priv.composeDefaults(ic); err != nil {
			undo()
			return err
		}
	}

	prevClass, prevExt := i.class, i.ext
	prevFields := make(map[string]Value, len(i.fields))
	for k, v := range i.fields {
		prevFields[k] = v
	}
	i.class, i.ext = priv, priv

	for _, d := range ctors {
		if _, err := invoke(i, &Bound{Name: d.Name, Arity: d.Arity, Fn: d.Fn, Owner: priv, batch: b}, nil); err != nil {
			i.class, i.ext, i.fields = prevClass, prevExt, prevFields
			undo()
			return err
		}
	}
	if prevExt == nil {
		log.Debugf("instance %s extended from %s", i.id, prevClass)
	}
	return nil
}

// checkExtension rejects definitions whose failure is known up front:
// malformed entries, methods named like an existing field and duplicates
// within the batch. Conflicts that depend on the merge are caught there.
func (i *Instance) checkExtension(defs Defs) error {
	type slot struct {
		name  string
		arity int
	}
	seen := make(map[slot]bool)
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return err
		}
		if d.Name == ConstructorName || d.isDirective() {
			continue
		}
		if _, ok := i.class.fields[d.Name]; ok {
			return &PropertyConflictError{Class: i.class.name, Name: d.Name}
		}
		s := slot{d.Name, d.Arity}
		if seen[s] {
			return &DuplicateMethodError{Class: i.class.name, Method: d.Name, Arity: d.Arity}
		}
		seen[s] = true
	}
	return nil
}

// newPrivateClass derives the instance's private descriptor without
// attaching it.
func (i *Instance) newPrivateClass() (*Class, error) {
	base := i.class
	return define(base, []*Class{Extended}, nil, false, func(p *Class) {
		p.name = base.name
		p.private = true
	})
}

// snapshot records the members of c and returns a function restoring them.
// Tables are copied since merges insert into them in place; the constructor
// table stays shared.
func (c *Class) snapshot() func() {
	tables := make(map[string]*Table, len(c.tables))
	for name, t := range c.tables {
		if name == ConstructorName {
			tables[name] = t
		} else {
			tables[name] = t.Clone()
		}
	}
	fields := make(map[string]field, len(c.fields))
	for k, v := range c.fields {
		fields[k] = v
	}
	statics := make(map[string]Value, len(c.statics))
	for k, v := range c.statics {
		statics[k] = v
	}
	caps := make(map[*Class]struct{}, len(c.caps))
	for k := range c.caps {
		caps[k] = struct{}{}
	}
	return func() {
		c.tables, c.fields, c.statics, c.caps = tables, fields, statics, caps
	}
}
