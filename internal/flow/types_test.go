package flow

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValueUnmarshal(t *testing.T) {
	t.Run("inline scalar", func(t *testing.T) {
		var v Value
		if err := yaml.Unmarshal([]byte(`"hello world"`), &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.IsRef() {
			t.Fatal("expected inline text, got a reference")
		}
		if v.Text != "hello world" {
			t.Fatalf("Text = %q", v.Text)
		}
	})

	t.Run("reference mapping", func(t *testing.T) {
		var v Value
		if err := yaml.Unmarshal([]byte(`ref: prompts/llm__system.md`), &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !v.IsRef() {
			t.Fatal("expected a reference")
		}
		if v.Ref != "prompts/llm__system.md" {
			t.Fatalf("Ref = %q", v.Ref)
		}
	})

	t.Run("rejects other mappings", func(t *testing.T) {
		var v Value
		if err := yaml.Unmarshal([]byte(`foo: bar`), &v); err == nil {
			t.Fatal("expected error for non-ref mapping")
		}
	})

	t.Run("rejects sequences", func(t *testing.T) {
		var v Value
		if err := yaml.Unmarshal([]byte(`[a, b]`), &v); err == nil {
			t.Fatal("expected error for sequence")
		}
	})
}

func TestValueMarshal(t *testing.T) {
	inline, err := yaml.Marshal(Value{Text: "plain"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(inline)) != "plain" {
		t.Fatalf("inline marshal = %q", inline)
	}

	ref, err := yaml.Marshal(Value{Ref: "code/llm.py"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(ref)) != "ref: code/llm.py" {
		t.Fatalf("ref marshal = %q", ref)
	}
}

func TestNodeSlotUnmarshal(t *testing.T) {
	t.Run("pointer form", func(t *testing.T) {
		var s NodeSlot
		if err := yaml.Unmarshal([]byte(`ref: nodes/Start.yaml`), &s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !s.IsRef() || s.Ref != "nodes/Start.yaml" {
			t.Fatalf("slot = %+v", s)
		}
	})

	t.Run("inline form", func(t *testing.T) {
		src := "id: n1\ntitle: Start\ndata:\n  type: start\n"
		var s NodeSlot
		if err := yaml.Unmarshal([]byte(src), &s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.IsRef() {
			t.Fatal("expected inline node")
		}
		if s.Node.ID != "n1" || s.Node.Title != "Start" {
			t.Fatalf("node = %+v", s.Node)
		}
		if s.Node.Data.Extra["type"] != "start" {
			t.Fatalf("expected data.type preserved in Extra, got %v", s.Node.Data.Extra)
		}
	})
}

func TestParsePreservesUnknownFields(t *testing.T) {
	src := `app:
  name: Demo
  mode: workflow
kind: app
version: 0.1.5
workflow:
  features: {}
  graph:
    edges:
      - source: n1
        target: n2
    nodes:
      - id: n1
        title: Start
        data: {}
`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.App.Name != "Demo" {
		t.Errorf("App.Name = %q", doc.App.Name)
	}
	if doc.App.Extra["mode"] != "workflow" {
		t.Errorf("app.mode not preserved: %v", doc.App.Extra)
	}
	if doc.Extra["kind"] != "app" || doc.Extra["version"] != "0.1.5" {
		t.Errorf("top-level extras not preserved: %v", doc.Extra)
	}
	if _, ok := doc.Workflow.Extra["features"]; !ok {
		t.Errorf("workflow.features not preserved: %v", doc.Workflow.Extra)
	}
	if _, ok := doc.Workflow.Graph.Extra["edges"]; !ok {
		t.Errorf("graph.edges not preserved: %v", doc.Workflow.Graph.Extra)
	}

	out, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{"kind: app", "version: 0.1.5", "mode: workflow", "source: n1"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("marshaled document missing %q:\n%s", want, out)
		}
	}
}
