// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cstyle implements the Importer (C6) and Exporter (C7) for
// the canonical hierarchical cstyle textual format (§4.4, §4.5, §6.1
// of the specification this engine implements).
package cstyle

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/avibit/avconfig2/pkg/adapter/fsacq"
	"github.com/avibit/avconfig2/pkg/core/cerr"
	"github.com/avibit/avconfig2/pkg/core/fact"
	"github.com/avibit/avconfig2/pkg/core/location"
	"github.com/avibit/avconfig2/pkg/core/meta"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/avibit/avconfig2/pkg/core/store"
	"github.com/avibit/avconfig2/pkg/core/value"
)

// kindsByKeyword maps the cstyle grammar's type keywords to universal
// value Kinds, including the handful of C++-flavored aliases the
// original format used ("double", "uint", "int").
var kindsByKeyword = map[string]value.Kind{
	"string": value.KindString, "bool": value.KindBool,
	"int8": value.KindInt8, "int16": value.KindInt16,
	"int32": value.KindInt32, "int": value.KindInt32,
	"int64": value.KindInt64,
	"uint8": value.KindUint8, "uint16": value.KindUint16,
	"uint32": value.KindUint32, "uint": value.KindUint32,
	"uint64": value.KindUint64,
	"float32": value.KindFloat32, "float": value.KindFloat32,
	"float64": value.KindFloat64, "double": value.KindFloat64,
	"date": value.KindDate, "time": value.KindTime,
	"size": value.KindSize, "point": value.KindPoint,
	"rect": value.KindRect, "color": value.KindColor,
	"regexp": value.KindRegexp, "font": value.KindFont,
	"uuid": value.KindUUID, "bitarray": value.KindBitArray,
	"list": value.KindList, "map": value.KindMap,
}

// Import parses path as a cstyle file and installs every element it
// declares into s, subject to fact filtering. Resource acquisition
// goes through fsacq so the file descriptor and its mapping are always
// released, matching the scoped-acquisition discipline of §5.
func Import(path string, s *store.Store) error {
	return fsacq.WithFile(path, func(data []byte) error {
		p := newParser(path, string(data), s)
		return p.run()
	})
}

type parser struct {
	dir, base string
	lines     []string
	line      int // 1-based, index into lines of the next unread line
	s         *store.Store

	nsStack   []string
	factStack fact.Stack

	pendingComment string
	pendingHelp    []string
	pendingMeta    map[string]string
}

func newParser(path, data string, s *store.Store) *parser {
	return &parser{
		dir:         filepath.Dir(path),
		base:        strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		lines:       strings.Split(data, "\n"),
		line:        0,
		s:           s,
		pendingMeta: make(map[string]string),
	}
}

func (p *parser) loc(name string) location.Location {
	return location.Location{
		Dir: p.dir, Name: name, Format: location.FormatCstyle,
		Line: p.line, Facts: p.factStack.Clone(), Source: model.FileOrdinary,
	}
}

func (p *parser) overrideLoc(name string) location.Location {
	loc := p.loc(name)
	loc.Source = model.FileDevOverride
	return loc
}

func (p *parser) prefix() string {
	return strings.Join(p.nsStack, ".")
}

func (p *parser) qualify(name string) string {
	if len(p.nsStack) == 0 {
		return name
	}
	return p.prefix() + "." + name
}

// nextStatement returns the next logical statement: either a single
// directive/brace line, or — for a value assignment — every line from
// the first through the one containing the terminating top-level ';'.
func (p *parser) nextStatement() (string, bool) {
	for p.line < len(p.lines) && strings.TrimSpace(p.lines[p.line]) == "" {
		p.line++
	}
	if p.line >= len(p.lines) {
		return "", false
	}
	first := p.lines[p.line]
	p.line++
	trimmed := strings.TrimSpace(first)

	switch {
	case strings.HasPrefix(trimmed, "//"), strings.HasPrefix(trimmed, "#"),
		trimmed == "{" || strings.HasSuffix(trimmed, "{"),
		trimmed == "}" || strings.HasPrefix(trimmed, "}"):
		return trimmed, true
	}

	// Value assignment: accumulate until a top-level ';'.
	stmt := trimmed
	for !hasTopLevelSemicolon(stmt) && p.line < len(p.lines) {
		stmt += "\n" + p.lines[p.line]
		p.line++
	}
	return stmt, true
}

func hasTopLevelSemicolon(s string) bool {
	return len(value.SplitTopLevel(s, ';')) > 1
}

func (p *parser) run() error {
	for {
		stmt, ok := p.nextStatement()
		if !ok {
			return nil
		}
		if err := p.dispatch(stmt); err != nil {
			return fmt.Errorf("%s:%d: %w", p.base, p.line, err)
		}
	}
}

func (p *parser) dispatch(stmt string) error {
	switch {
	case strings.HasPrefix(stmt, "//!"):
		p.consumeDocLine(stmt)
		return nil
	case strings.HasPrefix(stmt, "//"):
		p.pendingComment = strings.TrimSpace(strings.TrimPrefix(stmt, "//"))
		return nil
	case strings.HasPrefix(stmt, "#avconfig_version"):
		return p.handleVersion(stmt)
	case strings.HasPrefix(stmt, "#define"):
		return p.handleDefine(stmt)
	case strings.HasPrefix(stmt, "#search"):
		return p.handleSearch(stmt)
	case strings.HasPrefix(stmt, "#include"):
		return p.handleInclude(stmt)
	case strings.HasPrefix(stmt, "#map"):
		return p.handleMap(stmt)
	case strings.HasPrefix(stmt, "#if"):
		return p.handleIf(stmt)
	case strings.HasPrefix(stmt, "#endif"):
		return p.handleEndif()
	case strings.HasPrefix(stmt, "subconfig_template"):
		return p.handleSubconfigTemplate(stmt)
	case strings.HasPrefix(stmt, "namespace"):
		return p.handleNamespace(stmt)
	case stmt == "}" || strings.HasPrefix(stmt, "}"):
		return p.handleClose()
	default:
		return p.handleAssignment(stmt)
	}
}

// consumeDocLine parses a "//! text" help line or a "//!\directive value"
// metadata line.
func (p *parser) consumeDocLine(stmt string) {
	body := strings.TrimSpace(strings.TrimPrefix(stmt, "//!"))
	if strings.HasPrefix(body, `\`) {
		fields := strings.SplitN(body[1:], " ", 2)
		key := fields[0]
		val := ""
		if len(fields) == 2 {
			val = strings.TrimSpace(fields[1])
		}
		p.pendingMeta[key] = val
		return
	}
	p.pendingHelp = append(p.pendingHelp, body)
}

func (p *parser) takeMetadata(name string, kind value.Kind) meta.Metadata {
	md := meta.Metadata{
		Name: name, Type: kind,
		Help:          strings.Join(p.pendingHelp, "\n"),
		Suggested:     p.pendingMeta["suggested"],
		SuggestedRef:  p.pendingMeta["suggested_ref"],
		CmdlineSwitch: p.pendingMeta["cmdline"],
		Comment:       p.pendingComment,
	}
	if _, ok := p.pendingMeta["optional"]; ok {
		md.Optional = true
	}
	if r, ok := p.pendingMeta["restriction"]; ok {
		md.Restriction = parseRestriction(r)
	}
	if c, ok := p.pendingMeta["comment"]; ok {
		md.Comment = c
	}
	p.pendingHelp = nil
	p.pendingMeta = make(map[string]string)
	p.pendingComment = ""
	return md
}

func parseRestriction(text string) *meta.Restriction {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "range"):
		var min, max float64
		fmt.Sscanf(strings.TrimPrefix(text, "range"), "[%g,%g]", &min, &max)
		return &meta.Restriction{Kind: meta.RestrictRange, Min: min, Max: max}
	case strings.HasPrefix(text, "enum"):
		inner := strings.TrimSuffix(strings.TrimPrefix(text, "enum["), "]")
		return &meta.Restriction{Kind: meta.RestrictEnum, Enum: strings.Split(inner, ",")}
	case strings.HasPrefix(text, "regex"):
		inner := strings.TrimSuffix(strings.TrimPrefix(text, "regex("), ")")
		return &meta.Restriction{Kind: meta.RestrictRegex, Pattern: inner}
	default:
		return nil
	}
}

func (p *parser) handleVersion(stmt string) error {
	fields := strings.Fields(stmt)
	if len(fields) != 2 {
		return cerr.Ingest(fmt.Errorf("malformed #avconfig_version directive"))
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || (n != 2 && n != 3) {
		return cerr.Ingest(fmt.Errorf("unsupported avconfig_version %q", fields[1]))
	}
	return nil
}

func (p *parser) handleDefine(stmt string) error {
	fields := strings.Fields(stmt)
	if len(fields) != 3 {
		return fmt.Errorf("malformed #define directive")
	}
	return p.s.AddDefine(fields[1], fields[2], p.loc(fields[1]))
}

func (p *parser) handleSearch(stmt string) error {
	path, err := quotedArg(stmt, "#search")
	if err != nil {
		return err
	}
	p.s.AddSearchPath(path, p.loc(path))
	return nil
}

func (p *parser) handleInclude(stmt string) error {
	name, err := quotedArg(stmt, "#include")
	if err != nil {
		return err
	}
	p.s.AddInclude(name, p.loc(name))
	return nil
}

// handleMap parses "#map [\"dir\"] ... #endmap" as a multi-line block
// already captured verbatim since #map contains no top-level ';' and
// our statement splitter treats "#"-prefixed lines individually; so
// accumulate subsequent lines here until #endmap.
func (p *parser) handleMap(stmt string) error {
	dir := ""
	rest := strings.TrimSpace(strings.TrimPrefix(stmt, "#map"))
	if strings.HasPrefix(rest, `"`) {
		end := strings.Index(rest[1:], `"`)
		if end < 0 {
			return fmt.Errorf("malformed #map directory")
		}
		dir = rest[1 : end+1]
	}
	for p.line < len(p.lines) {
		line := strings.TrimSpace(p.lines[p.line])
		p.line++
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#endmap") {
			return nil
		}
		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			return fmt.Errorf("malformed #map entry %q", line)
		}
		from := strings.TrimSpace(kv[0])
		to := strings.TrimSpace(strings.TrimSuffix(kv[1], ";"))
		p.s.AddMapping(from, dir, to, p.loc(from))
	}
	return fmt.Errorf("unterminated #map block")
}

func (p *parser) handleIf(stmt string) error {
	body := strings.TrimSpace(strings.TrimPrefix(stmt, "#if"))
	parts := strings.SplitN(body, "==", 2)
	if len(parts) != 2 {
		return fmt.Errorf("malformed #if condition %q", stmt)
	}
	factName := strings.TrimSpace(parts[0])
	values := strings.Split(strings.TrimSpace(parts[1]), "|")
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	cond := fact.NewCondition(factName, values)
	cond.NamespaceDepth = len(p.nsStack)
	next, err := p.factStack.Push(cond)
	if err != nil {
		return err
	}
	p.factStack = next
	return nil
}

func (p *parser) handleEndif() error {
	if len(p.factStack) == 0 {
		return fmt.Errorf("#endif without matching #if")
	}
	p.factStack = p.factStack[:len(p.factStack)-1]
	return nil
}

func (p *parser) handleSubconfigTemplate(stmt string) error {
	fields := strings.Fields(stmt)
	if len(fields) < 2 {
		return fmt.Errorf("malformed subconfig_template declaration")
	}
	name := strings.TrimSuffix(fields[1], "{")
	for {
		inner, ok := p.nextStatement()
		if !ok {
			return fmt.Errorf("unterminated subconfig_template %q", name)
		}
		if inner == "}" {
			return nil
		}
		if strings.HasPrefix(inner, "//") {
			if err := p.dispatch(inner); err != nil {
				return err
			}
			continue
		}
		kind, paramName, val, isRef, err := parseDecl(inner)
		if err != nil {
			return err
		}
		if isRef {
			return fmt.Errorf("subconfig_template %q: references are not supported", name)
		}
		md := p.takeMetadata(name+"."+paramName, kind)
		p.s.AddSubconfigTemplate(val, md, p.loc(name+"."+paramName))
	}
}

func (p *parser) handleNamespace(stmt string) error {
	body := strings.TrimSpace(strings.TrimPrefix(stmt, "namespace"))
	body = strings.TrimSuffix(body, "{")
	body = strings.TrimSpace(body)
	var name, parent string
	if idx := strings.Index(body, ":"); idx >= 0 {
		name = strings.TrimSpace(body[:idx])
		parent = strings.TrimSpace(body[idx+1:])
	} else {
		name = body
	}
	childFQ := p.qualify(name)
	p.nsStack = append(p.nsStack, name)
	if parent != "" {
		parentFQ := parent
		if len(p.nsStack) > 1 {
			parentFQ = strings.Join(p.nsStack[:len(p.nsStack)-1], ".") + "." + parent
		}
		if err := p.s.AddInheritedSection(parentFQ, childFQ, p.loc(name)); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) handleClose() error {
	if len(p.nsStack) == 0 {
		return fmt.Errorf("unmatched '}'")
	}
	p.nsStack = p.nsStack[:len(p.nsStack)-1]
	return nil
}

func (p *parser) handleAssignment(stmt string) error {
	kind, name, val, isRef, err := parseDecl(stmt)
	if err != nil {
		return err
	}
	if kind == "" {
		// Dev override: "name = value;" with no type keyword; inside an
		// open namespace the name is qualified by it.
		return p.s.AddOverride(val, p.overrideLoc(p.qualify(name)))
	}
	fq := p.qualify(name)
	md := p.takeMetadata(fq, kind)
	if isRef {
		return p.s.AddReference(val, md, p.loc(fq))
	}
	return p.s.AddParameter(val, md, p.loc(fq))
}

// parseDecl parses "TYPE [&] NAME = VALUE;" or, when no recognized type
// keyword leads the statement, "NAME = VALUE;" (kind returns "").
func parseDecl(stmt string) (kind value.Kind, name, val string, isRef bool, err error) {
	stmt = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))
	eq := topLevelIndex(stmt, '=')
	if eq < 0 {
		return "", "", "", false, fmt.Errorf("malformed declaration %q: missing '='", stmt)
	}
	lhs := strings.TrimSpace(stmt[:eq])
	val = strings.TrimSpace(stmt[eq+1:])

	fields := strings.Fields(lhs)
	if len(fields) == 1 {
		return "", fields[0], val, false, nil
	}
	k, ok := kindsByKeyword[fields[0]]
	if !ok {
		return "", "", "", false, fmt.Errorf("unknown type keyword %q", fields[0])
	}
	rest := fields[1:]
	if len(rest) == 2 && rest[0] == "&" {
		return k, rest[1], val, true, nil
	}
	if len(rest) == 1 && strings.HasPrefix(rest[0], "&") {
		return k, strings.TrimPrefix(rest[0], "&"), val, true, nil
	}
	if len(rest) != 1 {
		return "", "", "", false, fmt.Errorf("malformed declaration %q", stmt)
	}
	return k, rest[0], val, false, nil
}

func topLevelIndex(s string, b byte) int {
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"':
			inQuote = !inQuote
		case inQuote:
		case s[i] == '[':
			depth++
		case s[i] == ']':
			depth--
		case depth == 0 && s[i] == b:
			return i
		}
	}
	return -1
}

func quotedArg(stmt, directive string) (string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(stmt, directive))
	unquoted, err := value.UnquoteToken(rest)
	if err != nil {
		return "", fmt.Errorf("malformed %s argument %q: %w", directive, rest, err)
	}
	return unquoted, nil
}
