// Package hierarchy indexes the declarations of a unit by name and by
// inheritance so generators can find ancestors, descendants and implementors.
package hierarchy

import (
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/patternkit/model"
)

// Index is immutable after New. A Recorder-bound copy (see Recording) shares
// the same tables.
type Index struct {
	unit     *model.Unit
	byKey    map[string]*model.Declaration
	bySimple map[string][]*model.Declaration
	order    map[*model.Declaration]int
	// children maps a declaration to the declarations naming it as base or interface
	children map[*model.Declaration][]*model.Declaration
	rec      *Recorder
}

func key(qualified string, arity int) string {
	return qualified + "`" + strconv.Itoa(arity)
}

// New builds the index. Declarations are visited in unit order so every
// listing the index returns is deterministic.
func New(unit *model.Unit) *Index {
	idx := &Index{
		unit:     unit,
		byKey:    make(map[string]*model.Declaration),
		bySimple: make(map[string][]*model.Declaration),
		order:    make(map[*model.Declaration]int),
		children: make(map[*model.Declaration][]*model.Declaration),
	}
	for i, d := range unit.Declarations {
		idx.order[d] = i
		idx.byKey[key(d.QualifiedName(), len(d.TypeParameters))] = d
		idx.bySimple[d.Name] = append(idx.bySimple[d.Name], d)
	}
	for _, d := range unit.Declarations {
		for _, parent := range idx.parents(d) {
			idx.children[parent] = append(idx.children[parent], d)
		}
	}
	return idx
}

// Recording returns a view of the index that reports every declaration it
// hands out to rec. The generation cache uses it to learn which declarations
// a candidate's output depends on.
func (idx *Index) Recording(rec *Recorder) *Index {
	cp := *idx
	cp.rec = rec
	return &cp
}

func (idx *Index) touch(ds ...*model.Declaration) {
	if idx.rec == nil {
		return
	}
	for _, d := range ds {
		idx.rec.add(d)
	}
}

// Declarations returns every declaration of the unit in order
func (idx *Index) Declarations() []*model.Declaration {
	return idx.unit.Declarations
}

// Scan is Declarations for generators whose output depends on markers found
// anywhere in the unit. The recorder is marked wide.
func (idx *Index) Scan() []*model.Declaration {
	if idx.rec != nil {
		idx.rec.wide = true
	}
	return idx.unit.Declarations
}

// Lookup finds a declaration by qualified name and arity
func (idx *Index) Lookup(qualified string, arity int) (*model.Declaration, bool) {
	d, ok := idx.byKey[key(qualified, arity)]
	if ok {
		idx.touch(d)
	}
	return d, ok
}

// Resolve finds the declaration a type reference written inside from names.
// Lookup order follows C# name binding loosely: containing types, then the
// namespace and its parents, then the global namespace, and finally a unique
// simple-name match anywhere in the unit.
func (idx *Index) Resolve(t model.TypeRef, from *model.Declaration) (*model.Declaration, bool) {
	if t.IsZero() || t.IsArray() || t.Known != model.KnownNone {
		return nil, false
	}
	d, ok := idx.resolve(t.Name, len(t.Args), from)
	if ok {
		idx.touch(d)
	}
	return d, ok
}

// ResolveName is Resolve for a bare written name without generic arguments
func (idx *Index) ResolveName(name string, from *model.Declaration) (*model.Declaration, bool) {
	t, err := model.ParseType(name)
	if err != nil {
		return nil, false
	}
	return idx.Resolve(t, from)
}

func (idx *Index) resolve(name string, arity int, from *model.Declaration) (*model.Declaration, bool) {
	if from != nil {
		// containing type scopes, innermost first
		scopes := make([]string, 0, len(from.Containing)+1)
		prefix := from.Namespace
		for _, c := range from.Containing {
			prefix = join(prefix, c.Name)
			scopes = append(scopes, prefix)
		}
		scopes = append(scopes, join(prefix, from.Name))
		for i := len(scopes) - 1; i >= 0; i-- {
			if d, ok := idx.byKey[key(join(scopes[i], name), arity)]; ok {
				return d, true
			}
		}
		for ns := from.Namespace; ns != ""; ns = parentNamespace(ns) {
			if d, ok := idx.byKey[key(join(ns, name), arity)]; ok {
				return d, true
			}
		}
	}
	if d, ok := idx.byKey[key(name, arity)]; ok {
		return d, true
	}
	if strings.Contains(name, ".") {
		return nil, false
	}
	var match *model.Declaration
	for _, d := range idx.bySimple[name] {
		if len(d.TypeParameters) != arity {
			continue
		}
		if match != nil {
			return nil, false
		}
		match = d
	}
	return match, match != nil
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func parentNamespace(ns string) string {
	if i := strings.LastIndexByte(ns, '.'); i >= 0 {
		return ns[:i]
	}
	return ""
}

// parents resolves the base type and interfaces of d that live in the unit
func (idx *Index) parents(d *model.Declaration) []*model.Declaration {
	var out []*model.Declaration
	if !d.BaseType.IsZero() {
		if b, ok := idx.resolve(d.BaseType.Name, len(d.BaseType.Args), d); ok && b != d {
			out = append(out, b)
		}
	}
	for _, i := range d.Interfaces {
		if p, ok := idx.resolve(i.Name, len(i.Args), d); ok && p != d {
			out = append(out, p)
		}
	}
	return out
}

// Base returns the base class of d when it is declared in the unit. An
// interface named in the base position is not a base class.
func (idx *Index) Base(d *model.Declaration) (*model.Declaration, bool) {
	if d.BaseType.IsZero() {
		return nil, false
	}
	b, ok := idx.resolve(d.BaseType.Name, len(d.BaseType.Args), d)
	if !ok || b == d || b.Kind == model.KindInterface {
		return nil, false
	}
	idx.touch(b)
	return b, true
}

// ClassChain returns the base classes of d from nearest to farthest. Cycles
// in malformed input are cut at the first repeat.
func (idx *Index) ClassChain(d *model.Declaration) []*model.Declaration {
	var chain []*model.Declaration
	seen := map[*model.Declaration]bool{d: true}
	for cur := d; ; {
		b, ok := idx.Base(cur)
		if !ok || seen[b] {
			return chain
		}
		seen[b] = true
		chain = append(chain, b)
		cur = b
	}
}

// Interfaces returns every interface d implements, directly or through its
// base classes and interface ancestors, breadth first without duplicates.
func (idx *Index) Interfaces(d *model.Declaration) []*model.Declaration {
	var out []*model.Declaration
	seen := map[*model.Declaration]bool{d: true}
	queue := append([]*model.Declaration{d}, idx.ClassChain(d)...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range idx.parents(cur) {
			if p.Kind != model.KindInterface || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
			queue = append(queue, p)
		}
	}
	idx.touch(out...)
	return out
}

// Ancestors is the class chain followed by all interfaces: the order a
// visitor walks when looking for the nearest handler.
func (idx *Index) Ancestors(d *model.Declaration) []*model.Declaration {
	return append(idx.ClassChain(d), idx.Interfaces(d)...)
}

// Descendants returns every declaration that transitively derives from or
// implements root, in unit order.
func (idx *Index) Descendants(root *model.Declaration) []*model.Declaration {
	seen := map[*model.Declaration]bool{root: true}
	var found []*model.Declaration
	stack := []*model.Declaration{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range idx.children[cur] {
			if seen[c] {
				continue
			}
			seen[c] = true
			found = append(found, c)
			stack = append(stack, c)
		}
	}
	sort.Slice(found, func(i, j int) bool { return idx.order[found[i]] < idx.order[found[j]] })
	idx.touch(found...)
	return found
}

// Implementors returns the concrete classes and structs among the descendants of contract
func (idx *Index) Implementors(contract *model.Declaration) []*model.Declaration {
	var out []*model.Declaration
	for _, d := range idx.Descendants(contract) {
		if d.Kind == model.KindInterface || d.IsAbstract() {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Recorder collects the declarations an index view has handed out.
type Recorder struct {
	seen map[*model.Declaration]bool
	list []*model.Declaration
	wide bool
}

// NewRecorder returns an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{seen: make(map[*model.Declaration]bool)}
}

func (r *Recorder) add(d *model.Declaration) {
	if r.seen[d] {
		return
	}
	r.seen[d] = true
	r.list = append(r.list, d)
}

// Declarations returns the recorded declarations sorted by qualified name
func (r *Recorder) Declarations() []*model.Declaration {
	out := append([]*model.Declaration(nil), r.list...)
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentStem() < out[j].DocumentStem() })
	return out
}

// Wide reports that the whole unit was scanned, so any change is a dependency
func (r *Recorder) Wide() bool { return r.wide }

// Names returns the recorded declarations' document stems, sorted
func (r *Recorder) Names() []string {
	ds := r.Declarations()
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.DocumentStem()
	}
	return names
}
