// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package comment

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one name/value/help triple the "avconfig dump --format yaml"
// subcommand renders. Help becomes the head-comment written above its
// key, using the same LoadFrom/SaveInto transplant this package already
// performs for arbitrary YAML trees.
type Entry struct {
	Name, Value, Help string
}

// DocumentedYAML renders entries as a YAML mapping with each entry's
// Help as the head-comment of its key. A throwaway "template" mapping
// carries the comments; LoadFrom extracts them and SaveInto grafts them
// onto the real mapping before it is marshaled, exactly the transplant
// this package exists for, just with a generated source tree instead of
// a previously-saved file.
func DocumentedYAML(entries []Entry) ([]byte, error) {
	template := &yaml.Node{Kind: yaml.MappingNode}
	real := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: e.Name, HeadComment: e.Help}
		placeholder := &yaml.Node{Kind: yaml.ScalarNode, Value: ""}
		template.Content = append(template.Content, key, placeholder)

		realKey := &yaml.Node{Kind: yaml.ScalarNode, Value: e.Name}
		realVal := &yaml.Node{Kind: yaml.ScalarNode, Value: e.Value}
		real.Content = append(real.Content, realKey, realVal)
	}

	c, err := LoadFrom(template)
	if err != nil {
		return nil, fmt.Errorf("building parameter doc comments: %w", err)
	}
	if err := c.SaveInto(real); err != nil {
		return nil, fmt.Errorf("grafting parameter doc comments: %w", err)
	}

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{real}}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal documented config: %w", err)
	}
	return out, nil
}
