package modifier

import "fmt"

// ProblemKind classifies a semantic defect of a parsed modifier.
type ProblemKind int

// ProblemKind values.
const (
	UnrecognizedName ProblemKind = iota + 1
	IllegalValue
	NonBooleanValue
	MissingValue
	// UnknownOrganism is reported by callers holding an organism table;
	// CheckOne never produces it.
	UnknownOrganism
)

func (k ProblemKind) String() string {
	switch k {
	case UnrecognizedName:
		return "unrecognized modifier"
	case IllegalValue:
		return "illegal value"
	case NonBooleanValue:
		return "non-boolean value"
	case MissingValue:
		return "missing value"
	case UnknownOrganism:
		return "unknown organism"
	default:
		return "unknown problem"
	}
}

// Problem is one semantic defect, naming the modifier and value as they
// appeared in the title.
type Problem struct {
	Kind  ProblemKind
	Name  string
	Value string
}

func (p Problem) String() string {
	if p.Value == "" {
		return fmt.Sprintf("%s: %s", p.Kind, p.Name)
	}
	return fmt.Sprintf("%s: %s=%q", p.Kind, p.Name, p.Value)
}

// CheckOne validates a single modifier against its kind.
func CheckOne(m Modifier) (Problem, bool) {
	def, ok := m.Definition()
	if !ok {
		return Problem{Kind: UnrecognizedName, Name: m.Raw, Value: m.Value}, true
	}

	if def.NonText {
		if m.HasValue {
			if _, ok := ParseBool(m.Value); !ok {
				return Problem{Kind: NonBooleanValue, Name: m.Raw, Value: m.Value}, true
			}
		}
		return Problem{}, false
	}

	if !m.HasValue || m.Value == "" {
		return Problem{Kind: MissingValue, Name: m.Raw}, true
	}
	if _, ok := NormalizeValue(m.Kind, m.Value); !ok {
		return Problem{Kind: IllegalValue, Name: m.Raw, Value: m.Value}, true
	}
	return Problem{}, false
}

// Check validates every modifier and returns all problems found, in order.
func Check(mods []Modifier) []Problem {
	var problems []Problem
	for _, m := range mods {
		if p, ok := CheckOne(m); ok {
			problems = append(problems, p)
		}
	}
	return problems
}
