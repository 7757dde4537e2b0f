package canon

import "testing"

func TestDetect_ByFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  any
		want SourceFormat
	}{
		{
			name: "openai wrapped",
			doc: map[string]any{
				"type":     "function",
				"function": map[string]any{"name": "f"},
			},
			want: FormatOpenAI,
		},
		{
			name: "openai legacy",
			doc:  map[string]any{"name": "f", "parameters": map[string]any{}},
			want: FormatOpenAI,
		},
		{
			name: "anthropic",
			doc:  map[string]any{"name": "f", "input_schema": map[string]any{}},
			want: FormatAnthropic,
		},
		{
			name: "mcp",
			doc:  map[string]any{"name": "f", "inputSchema": map[string]any{}},
			want: FormatMCP,
		},
		{
			name: "langchain args_schema",
			doc:  map[string]any{"args_schema": map[string]any{}},
			want: FormatLangChain,
		},
		{
			name: "langchain properties",
			doc:  map[string]any{"name": "f", "properties": map[string]any{}},
			want: FormatLangChain,
		},
		{
			name: "no known shape",
			doc:  map[string]any{"name": "f", "description": "d"},
			want: FormatRaw,
		},
		{
			name: "empty object",
			doc:  map[string]any{},
			want: FormatRaw,
		},
		{
			name: "non-object",
			doc:  "not a tool",
			want: FormatRaw,
		},
		{
			name: "nil",
			doc:  nil,
			want: FormatRaw,
		},
	}

	d := NewDetector()
	for _, tt := range tests {
		if got := d.Detect(tt.doc); got != tt.want {
			t.Errorf("%s: Detect = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDetect_PriorityOrder(t *testing.T) {
	t.Parallel()

	// The wrapped OpenAI shape outranks an Anthropic schema key in the
	// same document.
	doc := map[string]any{
		"type":         "function",
		"function":     map[string]any{"name": "f"},
		"name":         "f",
		"input_schema": map[string]any{},
	}

	if got := NewDetector().Detect(doc); got != FormatOpenAI {
		t.Errorf("Detect = %q, want %q", got, FormatOpenAI)
	}
}

func TestConfidence_AnthropicFullScore(t *testing.T) {
	t.Parallel()

	doc := map[string]any{"name": "f", "input_schema": map[string]any{}}
	scores := NewDetector().Confidence(doc)

	if scores[FormatAnthropic] != 1.0 {
		t.Errorf("anthropic = %v, want 1.0", scores[FormatAnthropic])
	}
}

func TestConfidence_Independent(t *testing.T) {
	t.Parallel()

	// Confidence evaluates every predicate even when an earlier format
	// already matched: a document with both schema keys scores 1.0 twice.
	doc := map[string]any{
		"name":         "f",
		"input_schema": map[string]any{},
		"inputSchema":  map[string]any{},
	}
	scores := NewDetector().Confidence(doc)

	if scores[FormatAnthropic] != 1.0 {
		t.Errorf("anthropic = %v, want 1.0", scores[FormatAnthropic])
	}
	if scores[FormatMCP] != 1.0 {
		t.Errorf("mcp = %v, want 1.0", scores[FormatMCP])
	}
}

func TestConfidence_NoMatchOnlyRawFloor(t *testing.T) {
	t.Parallel()

	scores := NewDetector().Confidence(map[string]any{"foo": "bar"})

	if scores[FormatRaw] != rawFloorScore {
		t.Errorf("raw = %v, want %v", scores[FormatRaw], rawFloorScore)
	}
	for _, f := range []SourceFormat{FormatOpenAI, FormatAnthropic, FormatMCP, FormatLangChain} {
		if scores[f] != 0 {
			t.Errorf("%s = %v, want 0", f, scores[f])
		}
	}
}

func TestConfidence_SubCaseScores(t *testing.T) {
	t.Parallel()

	d := NewDetector()

	legacy := map[string]any{"name": "f", "parameters": map[string]any{}}
	if got := d.Confidence(legacy)[FormatOpenAI]; got != 0.7 {
		t.Errorf("openai legacy = %v, want 0.7", got)
	}

	wrapped := map[string]any{"type": "function", "function": map[string]any{}}
	if got := d.Confidence(wrapped)[FormatOpenAI]; got != 1.0 {
		t.Errorf("openai wrapped = %v, want 1.0", got)
	}

	dedicated := map[string]any{"schema": map[string]any{}}
	if got := d.Confidence(dedicated)[FormatLangChain]; got != 0.8 {
		t.Errorf("langchain dedicated = %v, want 0.8", got)
	}

	weak := map[string]any{"name": "f", "properties": map[string]any{}}
	if got := d.Confidence(weak)[FormatLangChain]; got != 0.5 {
		t.Errorf("langchain weak = %v, want 0.5", got)
	}
}

func TestConfidence_NonObjectScoresZero(t *testing.T) {
	t.Parallel()

	scores := NewDetector().Confidence([]any{"x"})

	if scores[FormatRaw] != rawFloorScore {
		t.Errorf("raw = %v, want %v", scores[FormatRaw], rawFloorScore)
	}
	if scores[FormatOpenAI] != 0 {
		t.Errorf("openai = %v, want 0", scores[FormatOpenAI])
	}
}
