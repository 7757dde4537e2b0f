package canon

import "fmt"

// Emit targets. The set is closed; json-schema is an export format, not a
// provider, so it is not a SourceFormat.
const (
	TargetOpenAI     = "openai"
	TargetAnthropic  = "anthropic"
	TargetMCP        = "mcp"
	TargetJSONSchema = "json-schema"
)

// EmitTargets lists every supported emit target.
var EmitTargets = []string{TargetOpenAI, TargetAnthropic, TargetMCP, TargetJSONSchema}

// Emit converts a canonical tool to the given target format. The tool is
// never mutated. An unknown target is a caller contract violation and
// returns ErrUnknownTarget.
func Emit(tool CanonicalTool, target string) (map[string]any, error) {
	switch target {
	case TargetOpenAI:
		return EmitOpenAI(tool), nil
	case TargetAnthropic:
		return EmitAnthropic(tool), nil
	case TargetMCP:
		return EmitMCP(tool), nil
	case TargetJSONSchema:
		return EmitJSONSchema(tool), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
}

// EmitOpenAI renders the wrapped OpenAI function-calling shape:
//
//	{"type": "function", "function": {"name": ..., "description": ..., "parameters": {...}}}
func EmitOpenAI(tool CanonicalTool) map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        tool.Name,
			"description": tool.Description,
			"parameters":  emitInputSchema(tool),
		},
	}
}

// EmitAnthropic renders the Anthropic tool-use shape:
//
//	{"name": ..., "description": ..., "input_schema": {...}}
func EmitAnthropic(tool CanonicalTool) map[string]any {
	return map[string]any{
		"name":         tool.Name,
		"description":  tool.Description,
		"input_schema": emitInputSchema(tool),
	}
}

// EmitMCP renders the MCP shape with its camelCase schema key:
//
//	{"name": ..., "description": ..., "inputSchema": {...}}
func EmitMCP(tool CanonicalTool) map[string]any {
	return map[string]any{
		"name":        tool.Name,
		"description": tool.Description,
		"inputSchema": emitInputSchema(tool),
	}
}

// EmitJSONSchema renders a standalone JSON Schema document describing the
// tool's input interface, with capability, output, and security metadata
// carried as x- extension annotations. x-capabilities is always present;
// x-outputs only when outputs are non-empty; x-security only when security
// metadata was attached.
func EmitJSONSchema(tool CanonicalTool) map[string]any {
	out := map[string]any{
		"$schema":     "https://json-schema.org/draft/2019-09/schema",
		"title":       tool.Name,
		"description": tool.Description,
	}
	for k, v := range emitInputSchema(tool) {
		out[k] = v
	}

	if len(tool.Outputs) > 0 {
		out["x-outputs"] = deepCopyObject(tool.Outputs)
	}

	out["x-capabilities"] = map[string]any{
		"action":        tool.Capabilities.Action,
		"domain":        tool.Capabilities.Domain,
		"side_effects":  tool.Capabilities.SideEffects,
		"idempotent":    tool.Capabilities.Idempotent,
		"cost_estimate": tool.Capabilities.CostEstimate,
	}

	if tool.Security != nil {
		permissions := tool.Security.RequiredPermissions
		if permissions == nil {
			permissions = []string{}
		}
		out["x-security"] = map[string]any{
			"required_permissions": permissions,
			"data_classification":  tool.Security.DataClassification,
			"pii_handling":         tool.Security.PIIHandling,
		}
	}

	return out
}

// emitInputSchema copies the tool's inputs, injecting "type": "object" when
// absent and defaulting to an empty object schema when the tool has no
// inputs at all. The copy keeps emitters from mutating the tool.
func emitInputSchema(tool CanonicalTool) map[string]any {
	if len(tool.Inputs) == 0 {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}
	}
	schema := deepCopyObject(tool.Inputs)
	if _, ok := schema["type"]; !ok {
		schema["type"] = "object"
	}
	return schema
}
