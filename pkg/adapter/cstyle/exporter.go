// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cstyle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/avibit/avconfig2/pkg/core/meta"
	"github.com/avibit/avconfig2/pkg/core/store"
)

// kindKeywords is the inverse of kindsByKeyword, preferring the
// canonical (non-alias) keyword for each Kind.
var kindKeywords = map[string]string{
	"string": "string", "bool": "bool",
	"int8": "int8", "int16": "int16", "int32": "int32", "int64": "int64",
	"uint8": "uint8", "uint16": "uint16", "uint32": "uint32", "uint64": "uint64",
	"float32": "float32", "float64": "float64",
	"date": "date", "time": "time", "size": "size", "point": "point",
	"rect": "rect", "color": "color", "regexp": "regexp", "font": "font",
	"uuid": "uuid", "bitarray": "bitarray", "list": "list", "map": "map",
}

// Export renders s's current parameter/reference set (plus its
// defines, overrides, mappings, search paths, includes and subconfig
// templates) as cstyle text pinned to formatVersion (2 or 3), grouping
// parameters by namespace and, within a namespace, by fact-condition
// stack via a longest-common-prefix walk (§4.5).
func Export(s *store.Store, formatVersion int) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "#avconfig_version %d\n", formatVersion)

	for _, d := range s.Defines() {
		fmt.Fprintf(&b, "#define %s %s\n", d.FactName, d.FactValue)
	}
	for _, n := range sortedOverrideNames(s) {
		ov, _ := s.OverrideByName(n)
		fmt.Fprintf(&b, "%s = %s;\n", ov.Name, ov.Value)
	}
	if mappings := s.Mappings(); len(mappings) > 0 {
		b.WriteString("#map\n")
		for _, m := range mappings {
			dest := m.MappedName
			if m.MappedDir != "" {
				dest = m.MappedDir + "/" + m.MappedName
			}
			fmt.Fprintf(&b, "\t%s : %s;\n", m.From, dest)
		}
		b.WriteString("#endmap\n")
	}
	for _, sp := range s.SearchPaths() {
		fmt.Fprintf(&b, "#search %q\n", sp.Path)
	}
	for _, inc := range s.Includes() {
		fmt.Fprintf(&b, "#include %q\n", inc.Name)
	}
	for _, t := range groupTemplates(s.SubconfigTemplates()) {
		fmt.Fprintf(&b, "subconfig_template %s {\n", t.name)
		for _, e := range t.entries {
			writeParamBody(&b, "\t", e.Metadata.Name[len(t.name)+1:], e.Metadata, e.Value)
		}
		b.WriteString("}\n")
	}

	tree := buildTree(s)
	tree.write(&b, 0)
	return b.String(), nil
}

func sortedOverrideNames(s *store.Store) []string {
	var names []string
	for _, n := range s.ParameterNames() {
		if _, ok := s.OverrideByName(n); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

type templateGroup struct {
	name    string
	entries []*store.SubconfigTemplate
}

func groupTemplates(all []*store.SubconfigTemplate) []templateGroup {
	order := make([]string, 0)
	byName := make(map[string]*templateGroup)
	for _, t := range all {
		idx := strings.IndexByte(t.Name, '.')
		name := t.Name
		if idx >= 0 {
			name = t.Name[:idx]
		}
		g, ok := byName[name]
		if !ok {
			g = &templateGroup{name: name}
			byName[name] = g
			order = append(order, name)
		}
		g.entries = append(g.entries, t)
	}
	out := make([]templateGroup, 0, len(order))
	for _, n := range order {
		out = append(out, *byName[n])
	}
	return out
}

// nsNode is one node of the namespace tree the exporter walks: either
// an inner namespace with children, or a leaf holding the parameters
// declared directly inside it.
type nsNode struct {
	name     string
	children map[string]*nsNode
	order    []string
	params   []*store.Parameter
	refs     []*store.Reference
}

func newNode(name string) *nsNode {
	return &nsNode{name: name, children: make(map[string]*nsNode)}
}

func (n *nsNode) child(name string) *nsNode {
	c, ok := n.children[name]
	if !ok {
		c = newNode(name)
		n.children[name] = c
		n.order = append(n.order, name)
	}
	return c
}

func buildTree(s *store.Store) *nsNode {
	root := newNode("")
	for _, name := range s.ParameterNames() {
		p, _ := s.ParameterByName(name)
		if p.Metadata.Incomplete {
			continue // still a bare override, never had its schema backfilled
		}
		parts := strings.Split(name, ".")
		node := root
		for _, seg := range parts[:len(parts)-1] {
			node = node.child(seg)
		}
		node.params = append(node.params, p)
	}
	for _, name := range s.ReferenceNames() {
		r, _ := s.ReferenceByName(name)
		if r.Resolved {
			continue // materialized as a parameter above; see DESIGN.md
		}
		parts := strings.Split(name, ".")
		node := root
		for _, seg := range parts[:len(parts)-1] {
			node = node.child(seg)
		}
		node.refs = append(node.refs, r)
	}
	return root
}

func (n *nsNode) write(b *strings.Builder, depth int) {
	indent := strings.Repeat("\t", depth)

	var paramItems []factItem
	for _, p := range n.params {
		p := p
		short := p.Name
		if idx := strings.LastIndexByte(p.Name, '.'); idx >= 0 {
			short = p.Name[idx+1:]
		}
		paramItems = append(paramItems, factItem{
			stack: p.Location.Facts,
			write: func(b *strings.Builder, indent string) {
				writeParamBody(b, indent, short, p.Metadata, p.Value)
			},
		})
	}
	writeFactGrouped(b, indent, paramItems, 0)

	var refItems []factItem
	for _, r := range n.refs {
		r := r
		short := r.Name
		if idx := strings.LastIndexByte(r.Name, '.'); idx >= 0 {
			short = r.Name[idx+1:]
		}
		refItems = append(refItems, factItem{
			stack: r.Location.Facts,
			write: func(b *strings.Builder, indent string) {
				keyword, ok := kindKeywords[string(r.Metadata.Type)]
				if !ok {
					keyword = string(r.Metadata.Type)
				}
				fmt.Fprintf(b, "%s%s & %s = %s;\n", indent, keyword, short, r.Expr)
			},
		})
	}
	writeFactGrouped(b, indent, refItems, 0)

	for _, name := range n.order {
		fmt.Fprintf(b, "%snamespace %s {\n", indent, name)
		n.children[name].write(b, depth+1)
		fmt.Fprintf(b, "%s} // namespace %s\n", indent, name)
	}
}

// factItem is one exportable element (a parameter or reference line)
// together with the fact-condition stack its Location carried at
// import time.
type factItem struct {
	stack fact.Stack
	write func(b *strings.Builder, indent string)
}

// writeFactGrouped renders items in order, re-opening and closing
// "#if fact==v1|v2 ... #endif" blocks around maximal consecutive runs
// that share a condition at the given stack depth, recursing one fact
// level at a time (§4.5's longest-common-prefix walk).
func writeFactGrouped(b *strings.Builder, indent string, items []factItem, depth int) {
	for i := 0; i < len(items); {
		if depth >= len(items[i].stack) {
			items[i].write(b, indent)
			i++
			continue
		}
		cond := items[i].stack[depth]
		j := i + 1
		for j < len(items) && depth < len(items[j].stack) && sameCondition(items[j].stack[depth], cond) {
			j++
		}
		fmt.Fprintf(b, "%s#if %s\n", indent, conditionString(cond))
		writeFactGrouped(b, indent+"\t", items[i:j], depth+1)
		fmt.Fprintf(b, "%s#endif\n", indent)
		i = j
	}
}

// sameCondition reports whether a and b gate on the same fact name and
// accept the same set of values, regardless of the order they were
// declared in.
func sameCondition(a, b fact.Condition) bool {
	if a.FactName != b.FactName || len(a.AllowedValues) != len(b.AllowedValues) {
		return false
	}
	for v := range a.AllowedValues {
		if _, ok := b.AllowedValues[v]; !ok {
			return false
		}
	}
	return true
}

// conditionString renders c as "fact==v1|v2|..." with its values in a
// stable sorted order, since AllowedValues is a set.
func conditionString(c fact.Condition) string {
	values := make([]string, 0, len(c.AllowedValues))
	for v := range c.AllowedValues {
		values = append(values, v)
	}
	sort.Strings(values)
	return fmt.Sprintf("%s==%s", c.FactName, strings.Join(values, "|"))
}

func writeParamBody(b *strings.Builder, indent, shortName string, md meta.Metadata, val string) {
	if md.Comment != "" {
		fmt.Fprintf(b, "%s// %s\n", indent, md.Comment)
	}
	for _, line := range strings.Split(md.Help, "\n") {
		if line != "" {
			fmt.Fprintf(b, "%s//! %s\n", indent, line)
		}
	}
	if md.Suggested != "" {
		fmt.Fprintf(b, "%s//! \\suggested %s\n", indent, md.Suggested)
	}
	if md.SuggestedRef != "" {
		fmt.Fprintf(b, "%s//! \\suggested_ref %s\n", indent, md.SuggestedRef)
	}
	if md.CmdlineSwitch != "" {
		fmt.Fprintf(b, "%s//! \\cmdline %s\n", indent, md.CmdlineSwitch)
	}
	if md.Optional {
		fmt.Fprintf(b, "%s//! \\optional\n", indent)
	}
	if md.Restriction != nil {
		fmt.Fprintf(b, "%s//! \\restriction %s\n", indent, md.Restriction.String())
	}
	keyword, ok := kindKeywords[string(md.Type)]
	if !ok {
		keyword = string(md.Type)
	}
	fmt.Fprintf(b, "%s%s %s = %s;\n", indent, keyword, shortName, val)
}
