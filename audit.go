package ciap

import (
	"fmt"
	"strings"
)

// MinArtifactEntries is the smallest catalog size Audit accepts.
const MinArtifactEntries = 10

// Rule identifies a validation rule of a trusted artifact.
type Rule string

// Artifact validation rules.
const (
	RuleCodeFormat Rule = "code-format"
	RuleDuplicate  Rule = "duplicate-code"
	RuleTitle      Rule = "empty-title"
	RuleChapter    Rule = "unknown-chapter"
	RuleComponent  Rule = "invalid-component"
)

// Violation is a single rule broken by one artifact entry.
type Violation struct {
	Index int    `json:"index"`
	Code  string `json:"code"`
	Rule  Rule   `json:"rule"`
}

// String formats the violation for console reports.
func (v Violation) String() string {
	switch v.Rule {
	case RuleCodeFormat:
		return fmt.Sprintf("#%d: invalid code format %q", v.Index, v.Code)
	case RuleDuplicate:
		return fmt.Sprintf("#%d: duplicate code %s", v.Index, v.Code)
	case RuleTitle:
		return fmt.Sprintf("#%d: %s has an empty title", v.Index, v.Code)
	case RuleChapter:
		return fmt.Sprintf("#%d: %s has an unknown chapter", v.Index, v.Code)
	case RuleComponent:
		return fmt.Sprintf("#%d: %s is outside the 01-99 component ranges", v.Index, v.Code)
	}
	return fmt.Sprintf("#%d: %s violates %s", v.Index, v.Code, v.Rule)
}

// Report is the outcome of auditing an artifact.
type Report struct {
	Total       int
	ByChapter   map[string]int
	ByComponent map[Component]int
	Violations  []Violation
}

// OK reports whether no rule was violated.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Count returns the number of violations of rule.
func (r *Report) Count(rule Rule) int {
	var n int
	for _, v := range r.Violations {
		if v.Rule == rule {
			n++
		}
	}
	return n
}

// Err returns an EVIOLATION error summarizing the violations, or nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return Errorf(EVIOLATION, "%d validation error(s) in %d entries", len(r.Violations), r.Total)
}

// Audit checks every entry against the trusted artifact rules and collects
// all violations instead of stopping at the first one.
//
// Returns EINVALID without checking entries if the catalog holds fewer than
// MinArtifactEntries entries.
func Audit(entries []Entry) (*Report, error) {
	if len(entries) < MinArtifactEntries {
		return nil, Errorf(EINVALID, "artifact holds %d entries, at least %d required", len(entries), MinArtifactEntries)
	}

	r := &Report{
		Total:       len(entries),
		ByChapter:   make(map[string]int, len(Chapters)),
		ByComponent: make(map[Component]int, len(ComponentRanges)),
	}
	for _, ch := range Chapters {
		r.ByChapter[ch] = 0
	}

	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		add := func(rule Rule) {
			r.Violations = append(r.Violations, Violation{Index: i, Code: e.Code, Rule: rule})
		}

		if !ValidCode(e.Code) {
			add(RuleCodeFormat)
		} else if c := ComponentOf(e.Code); c == ComponentInvalid {
			add(RuleComponent)
		} else {
			r.ByComponent[c]++
		}

		if _, dup := seen[e.Code]; dup {
			add(RuleDuplicate)
		}
		seen[e.Code] = struct{}{}

		if strings.TrimSpace(e.Title) == "" {
			add(RuleTitle)
		}

		if IsChapter(e.Chapter) {
			r.ByChapter[e.Chapter]++
		} else {
			add(RuleChapter)
		}
	}

	return r, nil
}
