package canon

// mcpParser handles Model Context Protocol tool definitions:
//
//	{"name": ..., "description": ..., "inputSchema": {...}}
//
// MCP uses camelCase inputSchema; the snake_case alias is accepted during
// extraction (useful when the format is forced) but only the camelCase key
// counts as an MCP detection signal; snake_case belongs to Anthropic.
type mcpParser struct{}

func (mcpParser) format() SourceFormat { return FormatMCP }

func (mcpParser) confidence(doc map[string]any) float64 {
	if _, ok := doc["name"]; ok {
		if _, ok := doc["inputSchema"]; ok {
			return 1.0
		}
	}
	return 0
}

func (p mcpParser) parse(doc map[string]any) (CanonicalTool, error) {
	key := "inputSchema"
	if _, ok := doc[key]; !ok {
		if _, ok := doc["input_schema"]; ok {
			key = "input_schema"
		}
	}
	inputSchema, err := getSchema(doc, key)
	if err != nil {
		return CanonicalTool{}, err
	}

	name := getString(doc, "name")
	description := getString(doc, "description")
	return buildTool(name, description, inputSchema, p.format(), doc), nil
}
