package catalog

import "strings"

// defaultCodeSuffix is appended to the derived variant code for values that
// carry no distinct short code. Two adjacent codeless values therefore produce
// a run of '1' digits, which marks the code as colliding.
const defaultCodeSuffix = "1"

// VariantCandidate is one full combination of attribute values, one value per
// line, together with its derived display name and code. Candidates are
// ephemeral: generated, handed to the payload assembler, and discarded.
type VariantCandidate struct {
	Values       []AttributeValue `json:"values"`
	Name         string           `json:"name"`
	Code         string           `json:"code"`
	HasCollision bool             `json:"hasCollision"`
}

// GenerateVariants expands the attribute lines into the full cartesian set of
// variant candidates. Line order equals the slice order and the first line
// varies slowest: for lines [L1{a,b}, L2{x,y}] the result order is
// (a,x), (a,y), (b,x), (b,y).
//
// The number of candidates equals the product of the value counts of each
// line. Zero lines, or any line with zero values, yields zero candidates.
func GenerateVariants(baseCode string, lines []AttributeLine) []VariantCandidate {
	if len(lines) == 0 {
		return []VariantCandidate{}
	}

	total := 1
	for _, line := range lines {
		total *= len(line.Values)
	}
	if total == 0 {
		return []VariantCandidate{}
	}

	candidates := make([]VariantCandidate, 0, total)
	tuple := make([]AttributeValue, len(lines))

	var expand func(depth int)
	expand = func(depth int) {
		if depth == len(lines) {
			candidates = append(candidates, buildCandidate(baseCode, tuple))
			return
		}
		for _, value := range lines[depth].Values {
			tuple[depth] = value
			expand(depth + 1)
		}
	}
	expand(0)

	return candidates
}

// buildCandidate derives the display name, code, and collision flag for one
// value tuple
func buildCandidate(baseCode string, tuple []AttributeValue) VariantCandidate {
	values := make([]AttributeValue, len(tuple))
	copy(values, tuple)

	names := make([]string, len(tuple))
	var code strings.Builder
	code.WriteString(baseCode)
	for i, value := range tuple {
		names[i] = value.Value
		code.WriteString(value.CodeOrDefault())
	}

	derived := code.String()
	return VariantCandidate{
		Values:       values,
		Name:         strings.Join(names, ", "),
		Code:         derived,
		HasCollision: codeCollides(baseCode, derived),
	}
}

// codeCollides reports whether the derived code, after removing the base code
// prefix, ends in a run of two or more '1' digits. Such a run signals that
// multiple codeless values were disambiguated with the default suffix and the
// resulting code is no longer unique.
func codeCollides(baseCode, derived string) bool {
	suffix := strings.TrimPrefix(derived, baseCode)
	run := 0
	for i := len(suffix) - 1; i >= 0; i-- {
		if suffix[i] != '1' {
			break
		}
		run++
	}
	return run >= 2
}
