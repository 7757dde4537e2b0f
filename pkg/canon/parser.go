package canon

import "fmt"

// parser is one source format's shape knowledge: a confidence predicate
// shared with the detector, and field extraction. The set of parsers is
// closed: the format list is part of the package contract, not an
// extension point.
type parser interface {
	// format returns the parser's own SourceFormat identity.
	format() SourceFormat

	// confidence scores how strongly the document matches this format,
	// in [0,1], from top-level key presence and the type discriminator
	// only. A positive score means the parser can attempt extraction.
	confidence(doc map[string]any) float64

	// parse extracts canonical fields. Missing optional fields default
	// silently; structurally invalid input (a schema key holding a
	// non-object) returns an error, which the canonicalizer converts to
	// a warning and a raw fallback.
	parse(doc map[string]any) (CanonicalTool, error)
}

// newParsers returns the closed parser set in detection priority order.
func newParsers() []parser {
	return []parser{
		openAIParser{},
		anthropicParser{},
		mcpParser{},
		langChainParser{},
	}
}

// getString reads a top-level string field, returning "" when the field is
// absent or not a string.
func getString(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

// getSchema reads a JSON-Schema-shaped field. Absent fields yield an empty
// object; a present non-object value is a structural failure.
func getSchema(doc map[string]any, key string) (map[string]any, error) {
	v, ok := doc[key]
	if !ok {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %q is not an object", key)
	}
	return m, nil
}

// buildTool assembles a CanonicalTool from extracted fields, running
// capability inference and deep-copying both the inputs and the full
// source document.
func buildTool(name, description string, inputs map[string]any, format SourceFormat, doc map[string]any) CanonicalTool {
	tool := newCanonicalTool()
	tool.Name = name
	tool.Description = description
	tool.Capabilities = InferCapabilities(name, description)
	tool.Inputs = deepCopyObject(inputs)
	tool.SourceFormat = format
	tool.OriginalDefinition = deepCopyObject(doc)
	return tool
}
