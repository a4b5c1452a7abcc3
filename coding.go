package ciap

import "fmt"

// Per-encounter code limits.
const (
	MaxRFECodes       = 1
	MaxDiagnosisCodes = 5
	MaxProcedureCodes = 5
)

// Coding holds the classification codes recorded for one encounter.
type Coding struct {
	RFE        []string `json:"ciapRfe"`
	Diagnoses  []string `json:"ciapDiagnosticos"`
	Procedures []string `json:"ciapProcedimentos"`
}

// CodingViolation describes one problem with a Coding.
type CodingViolation struct {
	Field   string `json:"field"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Violations returns every problem found in the coding.
// An empty result means the coding is valid.
func (c *Coding) Violations() []CodingViolation {
	var out []CodingViolation

	if len(c.RFE) == 0 && len(c.Diagnoses) == 0 {
		out = append(out, CodingViolation{
			Field:   "ciapDiagnosticos",
			Message: "an RFE (01-29) or a diagnosis (70-99) is required",
		})
	}

	out = append(out, checkCodes("ciapRfe", c.RFE, ComponentRFE, MaxRFECodes)...)
	out = append(out, checkCodes("ciapProcedimentos", c.Procedures, ComponentProcess, MaxProcedureCodes)...)
	out = append(out, checkCodes("ciapDiagnosticos", c.Diagnoses, ComponentDiagnosis, MaxDiagnosisCodes)...)
	return out
}

// Validate returns an EINVALID error describing the first violation, or nil.
func (c *Coding) Validate() error {
	vs := c.Violations()
	if len(vs) == 0 {
		return nil
	}
	return Errorf(EINVALID, "%s: %s (%d violation(s))", vs[0].Field, vs[0].Message, len(vs))
}

func checkCodes(field string, codes []string, want Component, limit int) []CodingViolation {
	var out []CodingViolation
	if len(codes) > limit {
		out = append(out, CodingViolation{
			Field:   field,
			Message: fmt.Sprintf("at most %d code(s) allowed, got %d", limit, len(codes)),
		})
	}

	lo, hi := want.Range()
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if !ValidCode(code) {
			out = append(out, CodingViolation{Field: field, Code: code, Message: "invalid code"})
			continue
		}
		if ComponentOf(code) != want {
			out = append(out, CodingViolation{
				Field:   field,
				Code:    code,
				Message: fmt.Sprintf("code outside the allowed range (%02d-%02d)", lo, hi),
			})
		}
		if _, dup := seen[code]; dup {
			out = append(out, CodingViolation{Field: field, Code: code, Message: "duplicate code"})
		}
		seen[code] = struct{}{}
	}
	return out
}

// Add normalizes code and appends it to the list matching its component.
// A new RFE replaces the current one. Returns false if the code is
// malformed, already present, or its list is full.
func (c *Coding) Add(code string) bool {
	code = NormalizeCode(code)
	if !ValidCode(code) {
		return false
	}

	switch ComponentOf(code) {
	case ComponentRFE:
		c.RFE = []string{code}
		return true
	case ComponentProcess:
		return addUnique(&c.Procedures, code, MaxProcedureCodes)
	case ComponentDiagnosis:
		return addUnique(&c.Diagnoses, code, MaxDiagnosisCodes)
	}
	return false
}

// Remove deletes code from whichever list holds it.
func (c *Coding) Remove(code string) {
	code = NormalizeCode(code)
	c.RFE = without(c.RFE, code)
	c.Diagnoses = without(c.Diagnoses, code)
	c.Procedures = without(c.Procedures, code)
}

func addUnique(list *[]string, code string, limit int) bool {
	for _, c := range *list {
		if c == code {
			return false
		}
	}
	if len(*list) >= limit {
		return false
	}
	*list = append(*list, code)
	return true
}

func without(list []string, code string) []string {
	out := list[:0:0]
	for _, c := range list {
		if c != code {
			out = append(out, c)
		}
	}
	return out
}
