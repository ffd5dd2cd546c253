// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package xmlcfg implements the XML Importer/Exporter (C9): an
// alternate serialization of the same element stream the cstyle and
// legacy importers feed (§2 C9, §6.5 "Optional XML: <name>.xml").
//
// No example repository in the retrieval pack imports a third-party
// XML library, so this package is built on encoding/xml; see
// DESIGN.md for the stdlib justification.
package xmlcfg

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/avibit/avconfig2/pkg/adapter/fsacq"
	"github.com/avibit/avconfig2/pkg/core/location"
	"github.com/avibit/avconfig2/pkg/core/meta"
	"github.com/avibit/avconfig2/pkg/core/model"
	"github.com/avibit/avconfig2/pkg/core/store"
	"github.com/avibit/avconfig2/pkg/core/value"
)

// document is the root element of a ".xml" persisted config.
type document struct {
	XMLName xml.Name   `xml:"avconfig2"`
	Params  []xmlParam `xml:"parameter"`
}

type xmlParam struct {
	Name          string `xml:"name,attr"`
	Type          string `xml:"type,attr"`
	Value         string `xml:"value,attr"`
	Help          string `xml:"help,attr,omitempty"`
	Suggested     string `xml:"suggested,attr,omitempty"`
	SuggestedRef  string `xml:"suggested_ref,attr,omitempty"`
	CmdlineSwitch string `xml:"cmdline,attr,omitempty"`
	Optional      bool   `xml:"optional,attr,omitempty"`
}

// Import parses path, an ".xml" config file, into s. Every element is
// installed with FILE_ORDINARY precedence, same as a cstyle namespace
// declaration.
func Import(path string, s *store.Store) error {
	dir := filepath.Dir(path)
	return fsacq.WithFile(path, func(data []byte) error {
		var doc document
		if err := xml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		for _, xp := range doc.Params {
			md := meta.Metadata{
				Name: xp.Name, Type: value.Kind(xp.Type), Help: xp.Help,
				Suggested: xp.Suggested, SuggestedRef: xp.SuggestedRef,
				CmdlineSwitch: xp.CmdlineSwitch, Optional: xp.Optional,
			}
			loc := location.Location{
				Dir: dir, Name: xp.Name, Format: location.FormatXML,
				Source: model.FileOrdinary,
			}
			if err := s.AddParameter(xp.Value, md, loc); err != nil {
				return fmt.Errorf("%s: %w", xp.Name, err)
			}
		}
		return nil
	})
}

// Export renders every non-incomplete parameter in s, in parameter
// insertion order, as an XML document.
func Export(s *store.Store) (string, error) {
	doc := document{}
	for _, name := range s.ParameterNames() {
		p, _ := s.ParameterByName(name)
		if p.Metadata.Incomplete {
			continue
		}
		doc.Params = append(doc.Params, xmlParam{
			Name: p.Name, Type: string(p.Metadata.Type), Value: p.Value,
			Help: p.Metadata.Help, Suggested: p.Metadata.Suggested,
			SuggestedRef: p.Metadata.SuggestedRef,
			CmdlineSwitch: p.Metadata.CmdlineSwitch, Optional: p.Metadata.Optional,
		})
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal config as xml: %w", err)
	}
	var b strings.Builder
	b.WriteString(xml.Header)
	b.Write(out)
	b.WriteByte('\n')
	return b.String(), nil
}
