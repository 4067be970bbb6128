package evaluation

import "strings"

// MatchRateFormula selects how the tech-stack match rate is scaled.
type MatchRateFormula int

const (
	// TruncateThenScale truncates matched/total to an integer before
	// multiplying by 100, so the rate is 0 until every canonical entry is
	// matched. This is the rate of record.
	TruncateThenScale MatchRateFormula = iota
	// ScaleThenTruncate multiplies by 100 before truncating, giving a true
	// percentage (0, 25, 50, 75, 100 for the default stack).
	ScaleThenTruncate
)

func (f MatchRateFormula) String() string {
	if f == ScaleThenTruncate {
		return "scale_then_truncate"
	}
	return "truncate_then_scale"
}

// ParseMatchRateFormula parses the config form of a formula.
func ParseMatchRateFormula(s string) (MatchRateFormula, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "truncate_then_scale":
		return TruncateThenScale, true
	case "scale_then_truncate":
		return ScaleThenTruncate, true
	default:
		return TruncateThenScale, false
	}
}

var defaultTechStack = []string{"C#", "RabbitMQ", "Microservice", "Visual Studio"}

// techStack is the canonical reference set. It is copied on construction and
// never exposed, so it stays fixed for the evaluator's lifetime.
type techStack struct {
	entries []string
}

func newTechStack(entries []string) techStack {
	return techStack{entries: append([]string(nil), entries...)}
}

func (s techStack) contains(candidate string) bool {
	for _, entry := range s.entries {
		if strings.EqualFold(entry, candidate) {
			return true
		}
	}
	return false
}

// similarityRate counts every declared entry that matches the reference set,
// duplicates included.
func (s techStack) similarityRate(declared []string, formula MatchRateFormula) int {
	if len(s.entries) == 0 {
		return 0
	}
	matched := 0
	for _, candidate := range declared {
		if s.contains(candidate) {
			matched++
		}
	}

	ratio := float64(matched) / float64(len(s.entries))
	if formula == ScaleThenTruncate {
		return int(ratio * 100)
	}
	return int(ratio) * 100
}
