package canon

import "fmt"

// openAIParser handles OpenAI function-calling definitions in both shapes:
//
//	wrapped: {"type": "function", "function": {"name": ..., "parameters": {...}}}
//	legacy:  {"name": ..., "parameters": {...}}
type openAIParser struct{}

func (openAIParser) format() SourceFormat { return FormatOpenAI }

// confidence scores 1.0 for the wrapped shape and 0.7 for the legacy
// name+parameters shape. The sub-cases are mutually exclusive; the wrapper
// wins when both somehow apply.
func (openAIParser) confidence(doc map[string]any) float64 {
	if doc["type"] == "function" {
		if _, ok := doc["function"]; ok {
			return 1.0
		}
	}
	if _, ok := doc["name"]; ok {
		if _, ok := doc["parameters"]; ok {
			return 0.7
		}
	}
	return 0
}

func (p openAIParser) parse(doc map[string]any) (CanonicalTool, error) {
	fn := doc
	if doc["type"] == "function" {
		if wrapped, ok := doc["function"]; ok {
			inner, ok := wrapped.(map[string]any)
			if !ok {
				return CanonicalTool{}, fmt.Errorf("field %q is not an object", "function")
			}
			fn = inner
		}
	}

	parameters, err := getSchema(fn, "parameters")
	if err != nil {
		return CanonicalTool{}, err
	}

	name := getString(fn, "name")
	description := getString(fn, "description")
	return buildTool(name, description, parameters, p.format(), doc), nil
}
