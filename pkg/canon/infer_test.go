package canon

import "testing"

func TestInferCapabilities_MutatingVerbWins(t *testing.T) {
	t.Parallel()

	// "delete" and "get" both appear; mutating verbs take precedence and
	// stop further action inference.
	cap := InferCapabilities("delete_item", "Get an item and delete it")

	if cap.Action != "write" {
		t.Errorf("action = %q, want %q", cap.Action, "write")
	}
	if !cap.SideEffects {
		t.Error("side_effects = false, want true")
	}
}

func TestInferCapabilities_SideEffectsLeaveIdempotentAlone(t *testing.T) {
	t.Parallel()

	// Inference never touches idempotent or cost_estimate, even for
	// mutating tools. The fields are intentionally independent.
	cap := InferCapabilities("delete_record", "Permanently delete a record")

	if !cap.Idempotent {
		t.Error("idempotent = false, want true (type default)")
	}
	if cap.CostEstimate != CostUnknown {
		t.Errorf("cost_estimate = %q, want %q", cap.CostEstimate, CostUnknown)
	}
}

func TestInferCapabilities_ReadVerbVocabularyOrder(t *testing.T) {
	t.Parallel()

	// "find" appears before "get" in the text, but "get" comes first in
	// the vocabulary; vocabulary order wins.
	cap := InferCapabilities("finder", "find targets and get their details")

	if cap.Action != "get" {
		t.Errorf("action = %q, want %q", cap.Action, "get")
	}
	if cap.SideEffects {
		t.Error("side_effects = true, want false")
	}
}

func TestInferCapabilities_DomainRuleOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"read_file", "Read a file from disk", "filesystem"},
		{"run_sql", "Run a sql statement", "database"},
		{"http_probe", "Probe an http endpoint", "web"},
		{"lint", "Analyze code for style issues", "code"},
		{"inbox", "Check email messages", "email"},
		// "file" precedes "sql" in the rule list, so filesystem wins
		// when both keywords appear.
		{"sql_file_load", "Load a sql file", "filesystem"},
	}

	for _, tt := range tests {
		cap := InferCapabilities(tt.name, tt.description)
		if cap.Domain != tt.want {
			t.Errorf("InferCapabilities(%q, %q).Domain = %q, want %q",
				tt.name, tt.description, cap.Domain, tt.want)
		}
	}
}

func TestInferCapabilities_NoVocabularyMatch(t *testing.T) {
	t.Parallel()

	cap := InferCapabilities("zzz", "nothing recognizable here")

	want := NewToolCapability()
	if cap != want {
		t.Errorf("capability = %+v, want all defaults %+v", cap, want)
	}
}

func TestInferCapabilities_Deterministic(t *testing.T) {
	t.Parallel()

	first := InferCapabilities("search_web", "Search the web for a query")
	for range 10 {
		if got := InferCapabilities("search_web", "Search the web for a query"); got != first {
			t.Fatalf("inference not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestInferCapabilities_SearchIsReadAndWeb(t *testing.T) {
	t.Parallel()

	cap := InferCapabilities("search_web", "Search the web for a query string")

	if cap.Action != "search" {
		t.Errorf("action = %q, want %q", cap.Action, "search")
	}
	if cap.Domain != "web" {
		t.Errorf("domain = %q, want %q", cap.Domain, "web")
	}
	if cap.SideEffects {
		t.Error("side_effects = true, want false")
	}
}
