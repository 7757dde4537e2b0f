package canon

// rawFloorScore is the guaranteed fallback confidence for the raw format.
// It is never zero, so raw is always a viable candidate.
const rawFloorScore = 0.1

// Detector identifies the source format of a tool definition from its
// top-level structure. It shares shape predicates with the parsers and is
// stateless after construction.
type Detector struct {
	parsers []parser
}

// NewDetector returns a detector over the closed parser set.
func NewDetector() *Detector {
	return &Detector{parsers: newParsers()}
}

// Detect returns the most likely source format using priority-ordered,
// first-match-wins evaluation: openai, anthropic, mcp, langchain, then raw
// when nothing matches. Non-object documents are always raw.
func (d *Detector) Detect(doc any) SourceFormat {
	m, ok := asObject(doc)
	if !ok {
		return FormatRaw
	}
	for _, p := range d.parsers {
		if p.confidence(m) > 0 {
			return p.format()
		}
	}
	return FormatRaw
}

// Confidence scores every format independently in [0,1]. Unlike Detect,
// each predicate is evaluated regardless of earlier matches. Raw always
// scores its fixed floor.
func (d *Detector) Confidence(doc any) map[SourceFormat]float64 {
	m, _ := asObject(doc)

	scores := make(map[SourceFormat]float64, len(d.parsers)+1)
	for _, p := range d.parsers {
		if m == nil {
			scores[p.format()] = 0
			continue
		}
		scores[p.format()] = p.confidence(m)
	}
	scores[FormatRaw] = rawFloorScore
	return scores
}
