// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fact implements fact conditions: the "#if fact==v1|v2 ...
// #endif" disjunctions that gate whether an imported element is kept
// or silently dropped for the current process.
package fact

import "fmt"

// Map is the process fact map: a flat set of fact-name to fact-value
// assignments. A missing fact always fails condition satisfaction, so
// the empty string is forbidden as a fact value to keep "missing" and
// "present but empty" unambiguous.
type Map map[string]string

// Set records name = value in m. It is an error to redefine a fact that
// is already present (the fact map may only grow, per the append-only
// rule of a "#define" directive), or to define an empty-string value.
func (m Map) Set(name, value string) error {
	if value == "" {
		return fmt.Errorf("fact %q: empty value is forbidden", name)
	}
	if _, exists := m[name]; exists {
		return fmt.Errorf("fact %q already defined", name)
	}
	m[name] = value
	return nil
}

// Condition is a disjunction over a single fact name: fact == v1 | v2
// | .... NamespaceDepth records how many enclosing namespaces were open
// when the condition was parsed, so the exporter can reason about
// where in the namespace tree a fact-condition block belongs.
type Condition struct {
	FactName       string
	AllowedValues  map[string]struct{}
	NamespaceDepth int
}

// NewCondition builds a Condition for factName accepting any of
// allowedValues.
func NewCondition(factName string, allowedValues []string) Condition {
	set := make(map[string]struct{}, len(allowedValues))
	for _, v := range allowedValues {
		set[v] = struct{}{}
	}
	return Condition{FactName: factName, AllowedValues: set}
}

// Satisfied reports whether m satisfies c: m must carry a value for
// c.FactName and that value must be one of c.AllowedValues.
func (c Condition) Satisfied(m Map) bool {
	v, ok := m[c.FactName]
	if !ok {
		return false
	}
	_, allowed := c.AllowedValues[v]
	return allowed
}

// String renders c in the canonical "fact==v1|v2|..." form.
func (c Condition) String() string {
	values := make([]string, 0, len(c.AllowedValues))
	for v := range c.AllowedValues {
		values = append(values, v)
	}
	s := c.FactName + "=="
	for i, v := range values {
		if i > 0 {
			s += "|"
		}
		s += v
	}
	return s
}

// Stack is an ordered sequence of nested Condition values, innermost
// last, recorded in a Location snapshot at import time. The same fact
// name may not appear twice in a Stack (conditions for the same fact
// must not nest).
type Stack []Condition

// Push appends c to the stack, returning an error if FactName already
// appears somewhere in the stack.
func (s Stack) Push(c Condition) (Stack, error) {
	for _, existing := range s {
		if existing.FactName == c.FactName {
			return nil, fmt.Errorf(
				"fact %q condition already open in this stack",
				c.FactName,
			)
		}
	}
	return append(append(Stack{}, s...), c), nil
}

// Satisfied reports whether m satisfies every condition in s. An empty
// stack is vacuously satisfied.
func (s Stack) Satisfied(m Map) bool {
	for _, c := range s {
		if !c.Satisfied(m) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of s, so a Location snapshot is not
// aliased to the importer's mutable condition stack.
func (s Stack) Clone() Stack {
	if len(s) == 0 {
		return nil
	}
	out := make(Stack, len(s))
	copy(out, s)
	return out
}
