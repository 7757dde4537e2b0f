package canon

import "fmt"

// Canonicalization warnings. Warning strings are part of the package
// contract; callers match on them.
const (
	// WarnRawPassthrough is added when auto-detection fell through to raw.
	WarnRawPassthrough = "Could not detect source format; using raw passthrough."

	// WarnNoName is added when the resulting tool has an empty name.
	WarnNoName = "Tool has no name"

	// WarnNoDescription is added when the resulting tool has an empty
	// description.
	WarnNoDescription = "Tool has no description"
)

// rawSchemaKeys are scanned in order by the raw extractor; the first key
// holding an object becomes the tool's inputs. The list covers every
// supported provider's schema key name.
var rawSchemaKeys = []string{"parameters", "input_schema", "inputSchema", "schema"}

// Canonicalizer normalizes tool definitions from any supported format into
// the canonical IR. It is stateless after construction and safe for
// concurrent use.
type Canonicalizer struct {
	detector *Detector
	parsers  map[SourceFormat]parser
}

// NewCanonicalizer wires the detector and the fixed parser set.
func NewCanonicalizer() *Canonicalizer {
	byFormat := make(map[SourceFormat]parser)
	for _, p := range newParsers() {
		byFormat[p.format()] = p
	}
	return &Canonicalizer{
		detector: NewDetector(),
		parsers:  byFormat,
	}
}

// Detector exposes the canonicalizer's format detector.
func (c *Canonicalizer) Detector() *Detector {
	return c.detector
}

// Canonicalize normalizes a decoded JSON document, auto-detecting its
// source format. It never fails: malformed shapes degrade to a raw
// extraction with warnings explaining why.
func (c *Canonicalizer) Canonicalize(doc any) Result {
	return c.run(doc, "")
}

// CanonicalizeAs normalizes a document as the given format, skipping
// detection. Forcing raw performs the heuristic extraction without the
// detection warning. Callers must pass a valid SourceFormat (see
// ParseSourceFormat); this is a programmer-error boundary, not an input
// validation one.
func (c *Canonicalizer) CanonicalizeAs(doc any, format SourceFormat) Result {
	return c.run(doc, format)
}

func (c *Canonicalizer) run(doc any, forced SourceFormat) Result {
	var warnings []string

	detected := forced
	if forced == "" {
		detected = c.detector.Detect(doc)
		if detected == FormatRaw {
			warnings = append(warnings, WarnRawPassthrough)
		}
	}

	var tool CanonicalTool
	if p, ok := c.parsers[detected]; ok {
		parsed, err := parseObject(p, doc)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Parser error for %s: %v", detected, err))
			tool = c.rawExtract(doc)
			detected = FormatRaw
		} else {
			tool = parsed
		}
	} else {
		tool = c.rawExtract(doc)
		detected = FormatRaw
	}

	if tool.Name == "" {
		warnings = append(warnings, WarnNoName)
	}
	if tool.Description == "" {
		warnings = append(warnings, WarnNoDescription)
	}

	return Result{
		Tool:                 tool,
		Warnings:             warnings,
		SourceFormatDetected: detected,
	}
}

// parseObject is the failure boundary around a parser: a non-object
// document is a structural failure like any other.
func parseObject(p parser, doc any) (CanonicalTool, error) {
	m, ok := asObject(doc)
	if !ok {
		return CanonicalTool{}, errNotObject
	}
	return p.parse(m)
}

// rawExtract is the best-effort heuristic for unknown formats and parser
// fallbacks. It scans known aliases for name and description, takes the
// first schema-like key holding an object as inputs, and still runs
// capability inference on whatever it found.
func (c *Canonicalizer) rawExtract(doc any) CanonicalTool {
	m, _ := asObject(doc)

	name := getString(m, "name")
	if name == "" {
		name = getString(m, "title")
	}
	if name == "" {
		if fn, ok := m["function"].(map[string]any); ok {
			name = getString(fn, "name")
		}
	}
	description := getString(m, "description")

	inputs := map[string]any{}
	for _, key := range rawSchemaKeys {
		if schema, ok := m[key].(map[string]any); ok {
			inputs = schema
			break
		}
	}

	return buildTool(name, description, inputs, FormatRaw, m)
}
