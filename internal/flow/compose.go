package flow

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Compose rebuilds a single workflow document from a decomposed flow
// directory. The main descriptor's node order is authoritative; the
// directory's iteration order plays no part.
//
// Every reference pointer must resolve to an existing file. A dangling
// pointer aborts the whole composition with a BrokenRefError; no
// partially-built document is returned.
func Compose(sourceDir string) (*Document, error) {
	data, err := os.ReadFile(filepath.Join(sourceDir, MainDescriptor))
	if err != nil {
		return nil, fmt.Errorf("read main descriptor: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MainDescriptor, err)
	}

	resolved := make([]NodeSlot, 0, len(doc.Workflow.Graph.Nodes))
	for _, slot := range doc.Workflow.Graph.Nodes {
		if !slot.IsRef() {
			resolved = append(resolved, slot)
			continue
		}

		node, err := loadNode(sourceDir, slot.Ref)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, NodeSlot{Node: node})
	}

	doc.Workflow.Graph.Nodes = resolved
	return doc, nil
}

// loadNode reads one node descriptor and inlines every reference it
// carries.
func loadNode(sourceDir, ref string) (*Node, error) {
	data, err := os.ReadFile(resolveRef(sourceDir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &BrokenRefError{Node: "main descriptor", Path: ref}
		}
		return nil, fmt.Errorf("read node descriptor %s: %w", ref, err)
	}

	var node Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse node descriptor %s: %w", ref, err)
	}
	if node.ID == "" {
		return nil, &MissingFieldError{Path: ref, Field: "id"}
	}

	owner := node.Title
	if owner == "" {
		owner = "node " + node.ID
	}

	for _, entry := range node.Data.PromptTemplate {
		if !entry.Text.IsRef() {
			continue
		}
		text, err := readRef(sourceDir, entry.Text.Ref, owner)
		if err != nil {
			return nil, err
		}
		entry.Text = Value{Text: text}
	}

	if node.Data.Code != nil && node.Data.Code.IsRef() {
		text, err := readRef(sourceDir, node.Data.Code.Ref, owner)
		if err != nil {
			return nil, err
		}
		node.Data.Code = &Value{Text: text}
	}

	return &node, nil
}

// readRef reads the full contents of a referenced file, attributing a
// missing target to the owning node.
func readRef(sourceDir, ref, owner string) (string, error) {
	data, err := os.ReadFile(resolveRef(sourceDir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return "", &BrokenRefError{Node: owner, Path: ref}
		}
		return "", fmt.Errorf("read reference %s: %w", ref, err)
	}
	return string(data), nil
}

// resolveRef turns a descriptor-relative reference into a filesystem
// path. Absolute references are used as-is.
func resolveRef(sourceDir, ref string) string {
	p := filepath.FromSlash(ref)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(sourceDir, p)
}
