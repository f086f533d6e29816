// Package flow models a Dify workflow DSL document and implements the two
// transforms between its single-document form and its decomposed,
// directory-of-files form.
//
// The model is deliberately partial: only the parts the transforms care
// about (app name, graph nodes, prompt templates, code blocks) are typed.
// Everything else a DSL document carries is preserved verbatim through
// inline maps so that decompose followed by compose reproduces the
// original document.
package flow

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the root of a workflow DSL document. It is constructed
// fresh for every transform and never persisted as a single unit once
// decomposed.
type Document struct {
	App      AppMeta        `yaml:"app"`
	Workflow Workflow       `yaml:"workflow"`
	Extra    map[string]any `yaml:",inline"`
}

// AppMeta is the app header of a DSL document. Only the display name is
// interpreted; it seeds the registry entry on first pull.
type AppMeta struct {
	Name  string         `yaml:"name"`
	Extra map[string]any `yaml:",inline"`
}

// Workflow wraps the node graph plus whatever else the DSL nests here
// (features, environment variables, conversation variables).
type Workflow struct {
	Graph Graph          `yaml:"graph"`
	Extra map[string]any `yaml:",inline"`
}

// Graph holds the node list. Edges and viewport data pass through Extra.
type Graph struct {
	Nodes []NodeSlot     `yaml:"nodes"`
	Extra map[string]any `yaml:",inline"`
}

// Node is one workflow node.
type Node struct {
	ID    string         `yaml:"id"`
	Title string         `yaml:"title"`
	Data  NodeData       `yaml:"data"`
	Extra map[string]any `yaml:",inline"`
}

// NodeData carries the text-bearing fields the transforms extract.
// PromptTemplate and Code are absent on node kinds that have neither.
type NodeData struct {
	PromptTemplate []*PromptEntry `yaml:"prompt_template,omitempty"`
	Code           *Value         `yaml:"code,omitempty"`
	CodeLanguage   string         `yaml:"code_language,omitempty"`
	Extra          map[string]any `yaml:",inline"`
}

// PromptEntry is one message of a node's prompt template.
type PromptEntry struct {
	Role string `yaml:"role"`
	Text Value  `yaml:"text"`
}

// Value is a text field that is either inline text or a reference to a
// file holding the text. Exactly one of the two forms is in effect;
// a non-empty Ref wins.
type Value struct {
	Text string
	Ref  string
}

// IsRef reports whether the value is a file reference rather than
// inline text.
func (v Value) IsRef() bool {
	return v.Ref != ""
}

// UnmarshalYAML accepts either a plain scalar (inline text) or a
// single-key mapping {ref: path}.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&v.Text)
	case yaml.MappingNode:
		var ref struct {
			Ref string `yaml:"ref"`
		}
		if err := node.Decode(&ref); err != nil {
			return err
		}
		if ref.Ref == "" {
			return fmt.Errorf("line %d: mapping is not a {ref: path} reference", node.Line)
		}
		v.Ref = ref.Ref
		return nil
	default:
		return fmt.Errorf("line %d: expected text or {ref: path}, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML emits {ref: path} for references and a plain scalar for
// inline text.
func (v Value) MarshalYAML() (any, error) {
	if v.IsRef() {
		return struct {
			Ref string `yaml:"ref"`
		}{v.Ref}, nil
	}
	return v.Text, nil
}

// NodeSlot is one element of the graph's node list: either an inline
// Node (composed form) or a {ref: path} pointer to a node descriptor
// file (decomposed form).
type NodeSlot struct {
	Ref  string
	Node *Node
}

// IsRef reports whether the slot points at a node descriptor file.
func (s NodeSlot) IsRef() bool {
	return s.Ref != ""
}

// UnmarshalYAML decides between the two forms by the presence of a
// "ref" key. Workflow nodes have no top-level ref field, so the probe
// is unambiguous.
func (s *NodeSlot) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: graph node must be a mapping", node.Line)
	}

	var probe struct {
		Ref string `yaml:"ref"`
	}
	if err := node.Decode(&probe); err == nil && probe.Ref != "" {
		s.Ref = probe.Ref
		return nil
	}

	var n Node
	if err := node.Decode(&n); err != nil {
		return err
	}
	s.Node = &n
	return nil
}

// MarshalYAML emits the pointer form when Ref is set, the inline node
// otherwise.
func (s NodeSlot) MarshalYAML() (any, error) {
	if s.IsRef() {
		return struct {
			Ref string `yaml:"ref"`
		}{s.Ref}, nil
	}
	return s.Node, nil
}

// Parse decodes a DSL document from YAML text.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse workflow document: %w", err)
	}
	return &doc, nil
}

// Marshal encodes a document back to YAML text, using the two-space
// indentation the Dify console produces.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshal workflow document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal workflow document: %w", err)
	}
	return buf.Bytes(), nil
}
