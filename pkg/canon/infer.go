package canon

import "strings"

// Capability inference is a fixed-table, first-match design. The tables are
// ordered association lists and the precedence below is intentional:
// mutating verbs always win over read verbs, and both the read-verb order
// and the domain-rule order decide ties. The tables must never be mutated
// after initialization.

// mutatingVerbs mark a tool as having side effects. Any match sets
// action="write" and stops further action inference.
var mutatingVerbs = []string{
	"create", "delete", "update", "post", "send", "save", "remove", "write",
}

// readVerbs are scanned in this order; the first verb found anywhere in the
// text becomes the action (vocabulary order, not text order).
var readVerbs = []string{
	"read", "get", "fetch", "list", "search", "query", "find",
}

type domainRule struct {
	keyword string
	domain  string
}

// domainRules are scanned in order; the first keyword found wins.
var domainRules = []domainRule{
	{"file", "filesystem"},
	{"sql", "database"},
	{"database", "database"},
	{"http", "web"},
	{"api", "web"},
	{"web", "web"},
	{"search", "web"},
	{"code", "code"},
	{"email", "email"},
}

// InferCapabilities derives capability metadata from a tool's name and
// description. It is a pure function and never fails; text with no
// recognizable vocabulary yields an all-default capability. Idempotent and
// CostEstimate are never touched by inference.
func InferCapabilities(name, description string) ToolCapability {
	cap := NewToolCapability()
	text := strings.ToLower(name + " " + description)

	for _, verb := range mutatingVerbs {
		if strings.Contains(text, verb) {
			cap.SideEffects = true
			cap.Action = "write"
			break
		}
	}

	if !cap.SideEffects {
		for _, verb := range readVerbs {
			if strings.Contains(text, verb) {
				cap.Action = verb
				break
			}
		}
	}

	for _, rule := range domainRules {
		if strings.Contains(text, rule.keyword) {
			cap.Domain = rule.domain
			break
		}
	}

	return cap
}
