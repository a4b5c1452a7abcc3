package ciap

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is a single classification code of the catalog.
type Entry struct {
	Code    string `json:"codigo"`
	Title   string `json:"titulo"`
	Chapter string `json:"capitulo"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if !ValidCode(e.Code) {
		return Errorf(EINVALID, "invalid code %q", e.Code)
	}
	if ComponentOf(e.Code) == ComponentInvalid {
		return Errorf(EINVALID, "code %q outside component ranges", e.Code)
	}
	if strings.TrimSpace(e.Title) == "" {
		return Errorf(EINVALID, "entry %s title required", e.Code)
	}
	if !IsChapter(e.Chapter) {
		return Errorf(EINVALID, "entry %s has unknown chapter %q", e.Code, e.Chapter)
	}
	return nil
}

// Chapters lists the chapter letters of the classification in canonical order.
var Chapters = []string{"A", "B", "D", "F", "H", "K", "L", "N", "P", "R", "S", "T", "U", "W", "X", "Y", "Z"}

// Components lists the component pages the source publishes per chapter.
// Component 1 holds reasons for encounter, 2 to 6 processes, 7 diagnoses.
var Components = []int{1, 2, 3, 4, 5, 6, 7}

// IsChapter reports whether s is one of the known chapter letters.
func IsChapter(s string) bool {
	for _, ch := range Chapters {
		if ch == s {
			return true
		}
	}
	return false
}

var codeRE = regexp.MustCompile(`^[A-Z][0-9]{2}$`)

// ValidCode reports whether s is an uppercase letter followed by two digits.
func ValidCode(s string) bool {
	return codeRE.MatchString(s)
}

// NormalizeCode trims and uppercases a user-supplied code.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Component is the range a code's numeric suffix falls into.
type Component int

// Component ranges.
const (
	ComponentInvalid Component = iota
	ComponentRFE
	ComponentProcess
	ComponentDiagnosis
)

// String returns the canonical upper-case name of the component.
func (c Component) String() string {
	switch c {
	case ComponentRFE:
		return "RFE"
	case ComponentProcess:
		return "PROCESS"
	case ComponentDiagnosis:
		return "DIAGNOSIS"
	default:
		return "INVALID"
	}
}

// Range returns the inclusive numeric bounds of the component.
// Invalid components return (0, 0).
func (c Component) Range() (lo, hi int) {
	switch c {
	case ComponentRFE:
		return 1, 29
	case ComponentProcess:
		return 30, 69
	case ComponentDiagnosis:
		return 70, 99
	default:
		return 0, 0
	}
}

// ComponentRanges lists the valid components in numeric order.
var ComponentRanges = []Component{ComponentRFE, ComponentProcess, ComponentDiagnosis}

// ParseComponent parses a component name case-insensitively.
// Returns EINVALID for unknown names.
func ParseComponent(s string) (Component, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RFE":
		return ComponentRFE, nil
	case "PROCESS":
		return ComponentProcess, nil
	case "DIAGNOSIS":
		return ComponentDiagnosis, nil
	}
	return ComponentInvalid, Errorf(EINVALID, "unknown component %q", s)
}

// ComponentOf derives the component from the numeric suffix of code.
// Codes that are not letter+2 digits, or whose suffix is 00, are invalid.
func ComponentOf(code string) Component {
	if !ValidCode(code) {
		return ComponentInvalid
	}
	n, err := strconv.Atoi(code[1:])
	if err != nil {
		return ComponentInvalid
	}
	switch {
	case n >= 1 && n <= 29:
		return ComponentRFE
	case n >= 30 && n <= 69:
		return ComponentProcess
	case n >= 70 && n <= 99:
		return ComponentDiagnosis
	}
	return ComponentInvalid
}

// FilterComponent returns the entries whose code falls in component c,
// preserving order.
func FilterComponent(entries []Entry, c Component) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if ComponentOf(e.Code) == c {
			out = append(out, e)
		}
	}
	return out
}
