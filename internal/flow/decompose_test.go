package flow

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// sampleDocument builds a small but representative workflow: a start
// node, an LLM node with a two-entry prompt template, and a code node.
func sampleDocument() *Document {
	return &Document{
		App: AppMeta{
			Name:  "Demo Flow",
			Extra: map[string]any{"mode": "workflow"},
		},
		Extra: map[string]any{"kind": "app", "version": "0.1.5"},
		Workflow: Workflow{
			Graph: Graph{
				Nodes: []NodeSlot{
					{Node: &Node{
						ID:    "start-1",
						Title: "Start",
						Data:  NodeData{Extra: map[string]any{"type": "start"}},
					}},
					{Node: &Node{
						ID:    "llm-1",
						Title: "Answer Question",
						Data: NodeData{
							PromptTemplate: []*PromptEntry{
								{Role: "system", Text: Value{Text: "You are a helpful assistant.\n"}},
								{Role: "user", Text: Value{Text: "{{question}}"}},
							},
							Extra: map[string]any{"type": "llm"},
						},
					}},
					{Node: &Node{
						ID:    "code-1",
						Title: "Post Process",
						Data: NodeData{
							Code:         &Value{Text: "def main(x):\n    return {\"y\": x}\n"},
							CodeLanguage: "python3",
							Extra:        map[string]any{"type": "code"},
						},
					}},
				},
				Extra: map[string]any{
					"edges": []any{map[string]any{"source": "start-1", "target": "llm-1"}},
				},
			},
		},
	}
}

func TestDecomposeLayout(t *testing.T) {
	dir := t.TempDir()

	if err := Decompose(sampleDocument(), dir); err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	for _, rel := range []string{
		"main.yaml",
		"nodes/Start.yaml",
		"nodes/Answer Question.yaml",
		"nodes/Post Process.yaml",
		"prompts/Answer Question__system.md",
		"prompts/Answer Question__user.md",
		"code/Post Process.py",
	} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected %s to exist: %v", rel, err)
		}
	}

	prompt, err := os.ReadFile(filepath.Join(dir, "prompts", "Answer Question__system.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(prompt) != "You are a helpful assistant.\n" {
		t.Errorf("prompt content = %q", prompt)
	}

	code, err := os.ReadFile(filepath.Join(dir, "code", "Post Process.py"))
	if err != nil {
		t.Fatal(err)
	}
	if string(code) != "def main(x):\n    return {\"y\": x}\n" {
		t.Errorf("code content = %q", code)
	}
}

func TestDecomposeMainDescriptorHoldsPointers(t *testing.T) {
	dir := t.TempDir()
	if err := Decompose(sampleDocument(), dir); err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "main.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	main, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse main.yaml: %v", err)
	}

	slots := main.Workflow.Graph.Nodes
	if len(slots) != 3 {
		t.Fatalf("expected 3 node slots, got %d", len(slots))
	}
	wantRefs := []string{"nodes/Start.yaml", "nodes/Answer Question.yaml", "nodes/Post Process.yaml"}
	for i, slot := range slots {
		if !slot.IsRef() {
			t.Fatalf("slot %d is not a reference: %+v", i, slot)
		}
		if slot.Ref != wantRefs[i] {
			t.Errorf("slot %d ref = %q, want %q", i, slot.Ref, wantRefs[i])
		}
	}
}

func TestDecomposeDoesNotMutateInput(t *testing.T) {
	doc := sampleDocument()
	if err := Decompose(doc, t.TempDir()); err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	llm := doc.Workflow.Graph.Nodes[1].Node
	if llm.Data.PromptTemplate[0].Text.IsRef() {
		t.Error("input document's prompt text was replaced by a reference")
	}
	code := doc.Workflow.Graph.Nodes[2].Node
	if code.Data.Code.IsRef() {
		t.Error("input document's code was replaced by a reference")
	}
}

func TestDecomposeDuplicateTitles(t *testing.T) {
	doc := &Document{
		App: AppMeta{Name: "Dup"},
		Workflow: Workflow{Graph: Graph{Nodes: []NodeSlot{
			{Node: &Node{ID: "a", Title: "Step?One"}},
			{Node: &Node{ID: "b", Title: "Step*One"}}, // sanitizes to the same base
		}}},
	}

	err := Decompose(doc, t.TempDir())
	var dup *DuplicateTitleError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateTitleError, got %v", err)
	}
	if dup.Base != "Step_One" {
		t.Errorf("colliding base = %q, want %q", dup.Base, "Step_One")
	}
}

func TestDecomposeReusesExistingDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "nodes"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := Decompose(sampleDocument(), dir); err != nil {
		t.Fatalf("Decompose with pre-existing nodes/: %v", err)
	}
}

func TestCodeExtension(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"python", ".py"},
		{"python3", ".py"},
		{"javascript", ".js"},
		{"javascript-es6", ".js"},
		{"jinja2", ".txt"},
		{"", ".txt"},
	}

	for _, tt := range tests {
		if got := CodeExtension(tt.lang); got != tt.want {
			t.Errorf("CodeExtension(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}
