package flow

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/dfac/internal/atomicfile"
	"github.com/aidanlsb/dfac/internal/fsname"
)

// Names of the files and subdirectories a decomposed flow consists of.
const (
	MainDescriptor = "main.yaml"
	NodesDir       = "nodes"
	PromptsDir     = "prompts"
	CodeDir        = "code"
)

// Decompose splits doc into a directory tree under targetDir:
// one node descriptor per graph node, one markdown file per prompt
// entry, one source file per code block, and a main descriptor whose
// node list points at the node files. doc itself is not modified.
//
// Pre-existing directories are reused. Two nodes whose titles sanitize
// to the same name are refused with a DuplicateTitleError rather than
// silently overwriting each other.
func Decompose(doc *Document, targetDir string) error {
	for _, sub := range []string{NodesDir, PromptsDir, CodeDir} {
		if err := os.MkdirAll(filepath.Join(targetDir, sub), 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", sub, err)
		}
	}

	titleForBase := make(map[string]string)
	slots := make([]NodeSlot, 0, len(doc.Workflow.Graph.Nodes))

	for _, slot := range doc.Workflow.Graph.Nodes {
		if slot.IsRef() {
			// Already decomposed elsewhere; carry the pointer through.
			slots = append(slots, slot)
			continue
		}

		base := fsname.Segment(slot.Node.Title)
		if other, taken := titleForBase[base]; taken {
			return &DuplicateTitleError{Title: slot.Node.Title, Other: other, Base: base}
		}
		titleForBase[base] = slot.Node.Title

		ref, err := writeNode(slot.Node, base, targetDir)
		if err != nil {
			return err
		}
		slots = append(slots, NodeSlot{Ref: ref})
	}

	main := *doc
	main.Workflow.Graph.Nodes = slots

	data, err := Marshal(&main)
	if err != nil {
		return err
	}
	if err := atomicfile.WriteFile(filepath.Join(targetDir, MainDescriptor), data, 0o644); err != nil {
		return fmt.Errorf("write main descriptor: %w", err)
	}
	return nil
}

// writeNode extracts the node's text-bearing fields to their own files
// and writes the node descriptor. It returns the descriptor's reference
// path (slash-separated, relative to targetDir).
func writeNode(node *Node, base, targetDir string) (string, error) {
	out := *node

	if len(node.Data.PromptTemplate) > 0 {
		entries := make([]*PromptEntry, len(node.Data.PromptTemplate))
		for i, entry := range node.Data.PromptTemplate {
			if entry.Text.IsRef() {
				entries[i] = entry
				continue
			}
			name := base + "__" + fsname.File(entry.Role, ".md")
			full := filepath.Join(targetDir, PromptsDir, name)
			if err := os.WriteFile(full, []byte(entry.Text.Text), 0o644); err != nil {
				return "", fmt.Errorf("write prompt %s: %w", name, err)
			}
			entries[i] = &PromptEntry{Role: entry.Role, Text: Value{Ref: path.Join(PromptsDir, name)}}
		}
		out.Data.PromptTemplate = entries
	}

	if node.Data.Code != nil && !node.Data.Code.IsRef() {
		name := base + CodeExtension(node.Data.CodeLanguage)
		full := filepath.Join(targetDir, CodeDir, name)
		if err := os.WriteFile(full, []byte(node.Data.Code.Text), 0o644); err != nil {
			return "", fmt.Errorf("write code %s: %w", name, err)
		}
		out.Data.Code = &Value{Ref: path.Join(CodeDir, name)}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return "", fmt.Errorf("marshal node %q: %w", node.Title, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("marshal node %q: %w", node.Title, err)
	}
	data := buf.Bytes()

	ref := path.Join(NodesDir, base+".yaml")
	if err := atomicfile.WriteFile(filepath.Join(targetDir, NodesDir, base+".yaml"), data, 0o644); err != nil {
		return "", fmt.Errorf("write node descriptor %s: %w", ref, err)
	}
	return ref, nil
}

// CodeExtension maps a DSL code_language value to a file extension by
// containment, so variants like "python3" and "javascript-es6" still
// land on the right dialect. Unrecognized languages get ".txt".
func CodeExtension(lang string) string {
	switch {
	case strings.Contains(lang, "python"):
		return ".py"
	case strings.Contains(lang, "javascript"):
		return ".js"
	default:
		return ".txt"
	}
}
