package canon

// anthropicParser handles Anthropic tool-use definitions:
//
//	{"name": ..., "description": ..., "input_schema": {...}}
type anthropicParser struct{}

func (anthropicParser) format() SourceFormat { return FormatAnthropic }

func (anthropicParser) confidence(doc map[string]any) float64 {
	if _, ok := doc["name"]; ok {
		if _, ok := doc["input_schema"]; ok {
			return 1.0
		}
	}
	return 0
}

func (p anthropicParser) parse(doc map[string]any) (CanonicalTool, error) {
	inputSchema, err := getSchema(doc, "input_schema")
	if err != nil {
		return CanonicalTool{}, err
	}

	name := getString(doc, "name")
	description := getString(doc, "description")
	return buildTool(name, description, inputSchema, p.format(), doc), nil
}
