package canon

import (
	"maps"
	"slices"
)

// langChainParser handles LangChain tool definitions, which show up in
// three shapes:
//
//	BaseTool:       {"name": ..., "description": ..., "args_schema": {...}}
//	StructuredTool: {"name": ..., "description": ..., "schema": {...}}
//	tool.schema():  {"title": ..., "description": ..., "properties": {...}}
type langChainParser struct{}

func (langChainParser) format() SourceFormat { return FormatLangChain }

// confidence scores 0.8 when a dedicated schema-descriptor key is present
// and 0.5 for the weaker properties+name co-occurrence without one.
func (langChainParser) confidence(doc map[string]any) float64 {
	if _, ok := doc["args_schema"]; ok {
		return 0.8
	}
	if _, ok := doc["schema"]; ok {
		return 0.8
	}
	if _, ok := doc["properties"]; ok {
		if _, ok := doc["name"]; ok {
			return 0.5
		}
	}
	return 0
}

func (p langChainParser) parse(doc map[string]any) (CanonicalTool, error) {
	name := getString(doc, "name")
	if name == "" {
		name = getString(doc, "title")
	}
	description := getString(doc, "description")

	inputs := map[string]any{}
	switch {
	case doc["args_schema"] != nil:
		schema, err := getSchema(doc, "args_schema")
		if err != nil {
			return CanonicalTool{}, err
		}
		inputs = normalizeLangChainSchema(schema)

	case doc["schema"] != nil:
		schema, err := getSchema(doc, "schema")
		if err != nil {
			return CanonicalTool{}, err
		}
		inputs = normalizeLangChainSchema(schema)

	case doc["parameters"] != nil:
		schema, err := getSchema(doc, "parameters")
		if err != nil {
			return CanonicalTool{}, err
		}
		inputs = schema

	case doc["properties"] != nil:
		props, err := getSchema(doc, "properties")
		if err != nil {
			return CanonicalTool{}, err
		}
		inputs = map[string]any{
			"type":       "object",
			"properties": props,
			"required":   requiredList(doc),
		}
	}

	return buildTool(name, description, inputs, p.format(), doc), nil
}

// normalizeLangChainSchema coerces the various LangChain schema dialects to
// a plain JSON Schema object.
func normalizeLangChainSchema(schema map[string]any) map[string]any {
	if schema["type"] == "object" || schema["properties"] != nil {
		props, _ := schema["properties"].(map[string]any)
		if props == nil {
			props = map[string]any{}
		}
		return map[string]any{
			"type":       "object",
			"properties": props,
			"required":   requiredList(schema),
		}
	}

	// Pydantic v2 model_json_schema shape: field names only, types unknown.
	if fields, ok := schema["model_fields"].(map[string]any); ok {
		properties := map[string]any{}
		required := []any{}
		for _, fieldName := range slices.Sorted(maps.Keys(fields)) {
			info := fields[fieldName]
			properties[fieldName] = map[string]any{"type": "string"}
			isRequired := true
			if infoMap, ok := info.(map[string]any); ok {
				if v, ok := infoMap["is_required"].(bool); ok {
					isRequired = v
				}
			}
			if isRequired {
				required = append(required, fieldName)
			}
		}
		return map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   required,
		}
	}

	return schema
}

// requiredList reads a "required" array, defaulting to empty.
func requiredList(schema map[string]any) []any {
	if req, ok := schema["required"].([]any); ok {
		return req
	}
	return []any{}
}
