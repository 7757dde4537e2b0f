// Package canon normalizes tool definitions written in provider-specific
// formats (OpenAI function calling, Anthropic tool use, MCP, LangChain) into
// one canonical intermediate representation, and emits that representation
// back into any supported provider format.
//
// The package is pure: no I/O, no shared mutable state. A Canonicalizer and
// a Detector are safe for concurrent use once constructed.
package canon

import (
	"encoding/json"
	"fmt"
)

// SourceFormat identifies the provider shape a tool definition was written in.
// It never changes after assignment.
type SourceFormat string

// Supported source formats, in detection priority order.
const (
	FormatOpenAI    SourceFormat = "openai"
	FormatAnthropic SourceFormat = "anthropic"
	FormatMCP       SourceFormat = "mcp"
	FormatLangChain SourceFormat = "langchain"
	FormatRaw       SourceFormat = "raw"
)

// SourceFormats lists every supported format, detection priority first.
var SourceFormats = []SourceFormat{
	FormatOpenAI,
	FormatAnthropic,
	FormatMCP,
	FormatLangChain,
	FormatRaw,
}

// ParseSourceFormat validates a source format string supplied by a caller
// (e.g. a --source-format flag). Unknown values are a contract violation
// and fail fast with ErrUnknownFormat.
func ParseSourceFormat(s string) (SourceFormat, error) {
	for _, f := range SourceFormats {
		if s == string(f) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Cost estimate values for ToolCapability.CostEstimate.
const (
	CostFree    = "free"
	CostLow     = "low"
	CostMedium  = "medium"
	CostHigh    = "high"
	CostUnknown = "unknown"
)

// ToolCapability carries inferred semantic metadata for a tool. All fields
// are independently settable; no cross-field constraint is enforced
// (side_effects=true does not imply idempotent=false).
type ToolCapability struct {
	// Action is the primary action verb: read, write, search, etc.
	Action string `json:"action"`

	// Domain is the tool's category: filesystem, web, database, etc.
	Domain string `json:"domain"`

	// SideEffects reports whether the tool mutates external state.
	SideEffects bool `json:"side_effects"`

	// Idempotent reports whether repeated calls produce the same result.
	Idempotent bool `json:"idempotent"`

	// CostEstimate is one of free, low, medium, high, unknown.
	CostEstimate string `json:"cost_estimate"`
}

// NewToolCapability returns a capability with type defaults: no action or
// domain, no side effects, idempotent, unknown cost.
func NewToolCapability() ToolCapability {
	return ToolCapability{
		Idempotent:   true,
		CostEstimate: CostUnknown,
	}
}

// Data classification values for ToolSecurity.DataClassification.
const (
	ClassificationPublic       = "public"
	ClassificationInternal     = "internal"
	ClassificationConfidential = "confidential"
	ClassificationRestricted   = "restricted"
)

// PII handling values for ToolSecurity.PIIHandling.
const (
	PIINone       = "none"
	PIIProcesses  = "processes"
	PIIStores     = "stores"
	PIIAnonymizes = "anonymizes"
)

// ToolSecurity carries security and data-handling metadata. It is optional
// on a CanonicalTool; absence means no security review has been recorded.
type ToolSecurity struct {
	// RequiredPermissions is an ordered list of permission strings.
	// Duplicates are allowed.
	RequiredPermissions []string `json:"required_permissions"`

	// DataClassification is one of public, internal, confidential, restricted.
	DataClassification string `json:"data_classification"`

	// PIIHandling is one of none, processes, stores, anonymizes.
	PIIHandling string `json:"pii_handling"`
}

// NewToolSecurity returns a security block with type defaults.
func NewToolSecurity() ToolSecurity {
	return ToolSecurity{
		RequiredPermissions: []string{},
		DataClassification:  ClassificationPublic,
		PIIHandling:         PIINone,
	}
}

// DefaultVersion is assigned to canonical tools that carry no version.
const DefaultVersion = "1.0.0"

// CanonicalTool is the provider-agnostic intermediate representation of a
// tool definition. It is constructed once per canonicalization and not
// mutated afterwards; use WithSecurity to derive an annotated copy.
type CanonicalTool struct {
	// Name is the tool identifier. An empty name is representable and
	// surfaces as a quality warning, not a failure.
	Name string `json:"name"`

	Version     string `json:"version"`
	Description string `json:"description"`

	// Capabilities is always present, never nil.
	Capabilities ToolCapability `json:"capabilities"`

	// Inputs is a JSON-Schema-shaped object describing tool parameters.
	Inputs map[string]any `json:"inputs"`

	// Outputs is a JSON-Schema-shaped object; providers carry no output
	// schema, so it is empty unless set by the caller.
	Outputs map[string]any `json:"outputs"`

	// Security is nil until security metadata is attached post hoc.
	Security *ToolSecurity `json:"security"`

	SourceFormat SourceFormat `json:"source_format"`

	// OriginalDefinition is a deep copy of the source document, retained
	// verbatim for audit. It is never reparsed on emission.
	OriginalDefinition map[string]any `json:"original_definition"`
}

// newCanonicalTool returns a tool with all type defaults populated.
func newCanonicalTool() CanonicalTool {
	return CanonicalTool{
		Version:            DefaultVersion,
		Capabilities:       NewToolCapability(),
		Inputs:             map[string]any{},
		Outputs:            map[string]any{},
		SourceFormat:       FormatRaw,
		OriginalDefinition: map[string]any{},
	}
}

// WithSecurity returns a copy of the tool with the given security metadata
// attached. The receiver is not modified.
func (t CanonicalTool) WithSecurity(sec ToolSecurity) CanonicalTool {
	out := t
	out.Security = &sec
	return out
}

// DecodeTool unmarshals a canonical tool from JSON, applying type defaults
// for absent fields.
func DecodeTool(data []byte) (CanonicalTool, error) {
	tool := newCanonicalTool()
	if err := json.Unmarshal(data, &tool); err != nil {
		return CanonicalTool{}, fmt.Errorf("canon: decode tool: %w", err)
	}
	if tool.Inputs == nil {
		tool.Inputs = map[string]any{}
	}
	if tool.Outputs == nil {
		tool.Outputs = map[string]any{}
	}
	if tool.OriginalDefinition == nil {
		tool.OriginalDefinition = map[string]any{}
	}
	if tool.SourceFormat == "" {
		tool.SourceFormat = FormatRaw
	}
	return tool, nil
}

// Result wraps the outcome of a canonicalization. It never represents a
// failure: the worst case is a nearly empty tool plus warnings saying why.
type Result struct {
	Tool CanonicalTool `json:"tool"`

	// Warnings is an ordered list of quality and recovery notices.
	Warnings []string `json:"warnings"`

	// SourceFormatDetected is the format actually used to parse the
	// document: forced, detected, or raw after a fallback.
	SourceFormatDetected SourceFormat `json:"source_format_detected"`
}

// asObject coerces a decoded JSON value to an object. Non-object values
// (arrays, scalars, nil) report false.
func asObject(doc any) (map[string]any, bool) {
	m, ok := doc.(map[string]any)
	return m, ok
}

// deepCopyObject returns a deep copy of a decoded JSON object so the
// canonical tool never aliases caller-owned structures. A nil input yields
// an empty object.
func deepCopyObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyObject(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		// Scalars (string, float64, bool, nil) are immutable as decoded.
		return val
	}
}
