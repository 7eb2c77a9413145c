package types

import (
	"sort"
	"strings"
	"sync"
)

// Class describes a class or interface known to the reflection layer.
type Class struct {
	Name       string
	Parent     string
	Interfaces []string
	Interface  bool
	Final      bool
}

// Well-known class names.
const (
	ClassTraversable       = "Traversable"
	ClassIterator          = "Iterator"
	ClassIteratorAggregate = "IteratorAggregate"
	ClassCountable         = "Countable"
	ClassArrayAccess       = "ArrayAccess"
	ClassArrayIterator     = "ArrayIterator"
	ClassArrayObject       = "ArrayObject"
	ClassGenerator         = "Generator"
	ClassClosure           = "Closure"
	ClassStdClass          = "stdClass"
	ClassThrowable         = "Throwable"
	ClassException         = "Exception"
)

var builtinClasses = []Class{
	{Name: ClassTraversable, Interface: true},
	{Name: ClassIterator, Interface: true, Interfaces: []string{ClassTraversable}},
	{Name: ClassIteratorAggregate, Interface: true, Interfaces: []string{ClassTraversable}},
	{Name: ClassCountable, Interface: true},
	{Name: ClassArrayAccess, Interface: true},
	{Name: ClassThrowable, Interface: true},
	{Name: ClassArrayIterator, Interfaces: []string{ClassIterator, ClassArrayAccess, ClassCountable}},
	{Name: ClassArrayObject, Interfaces: []string{ClassIteratorAggregate, ClassArrayAccess, ClassCountable}},
	{Name: ClassGenerator, Final: true, Interfaces: []string{ClassIterator}},
	{Name: ClassClosure, Final: true},
	{Name: ClassStdClass},
	{Name: ClassException, Interfaces: []string{ClassThrowable}},
}

// ClassTable is the class hierarchy used for object subtyping.
// Names are case-insensitive and a leading backslash is ignored.
type ClassTable struct {
	mu      sync.RWMutex
	classes map[string]Class
}

// NewClassTable creates a table holding the built-in classes.
func NewClassTable() *ClassTable {
	t := &ClassTable{classes: make(map[string]Class)}
	for _, c := range builtinClasses {
		t.Register(c)
	}
	return t
}

func normalizeClassName(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, `\`))
}

// Register adds or replaces a class.
func (t *ClassTable) Register(c Class) {
	c.Name = strings.TrimPrefix(c.Name, `\`)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.classes[normalizeClassName(c.Name)] = c
}

// Lookup returns the class registered under name.
func (t *ClassTable) Lookup(name string) (Class, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.classes[normalizeClassName(name)]
	return c, ok
}

// Canonical returns the declared spelling of name, or name without its
// leading backslash when the class is unknown.
func (t *ClassTable) Canonical(name string) string {
	if c, ok := t.Lookup(name); ok {
		return c.Name
	}
	return strings.TrimPrefix(name, `\`)
}

// Exists reports whether name is a known class or interface.
func (t *ClassTable) Exists(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// IsSubtypeOf reports whether sub is super, extends it or implements it.
func (t *ClassTable) IsSubtypeOf(sub, super string) bool {
	return t.isSubtypeOf(normalizeClassName(sub), normalizeClassName(super), make(map[string]bool))
}

func (t *ClassTable) isSubtypeOf(sub, super string, seen map[string]bool) bool {
	if sub == super {
		return true
	}
	if seen[sub] {
		return false
	}
	seen[sub] = true

	c, ok := t.Lookup(sub)
	if !ok {
		return false
	}
	if c.Parent != "" && t.isSubtypeOf(normalizeClassName(c.Parent), super, seen) {
		return true
	}
	for _, iface := range c.Interfaces {
		if t.isSubtypeOf(normalizeClassName(iface), super, seen) {
			return true
		}
	}
	return false
}

// MayIntersect reports whether some object could be an instance of both a
// and b.
func (t *ClassTable) MayIntersect(a, b string) bool {
	if t.IsSubtypeOf(a, b) || t.IsSubtypeOf(b, a) {
		return true
	}
	ca, okA := t.Lookup(a)
	cb, okB := t.Lookup(b)
	if !okA || !okB {
		return false
	}
	if ca.Interface && !cb.Final {
		return true
	}
	return cb.Interface && !ca.Final
}

// Names returns the declared names of all classes, sorted.
func (t *ClassTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.classes))
	for _, c := range t.classes {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}
