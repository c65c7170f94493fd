package rule

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	chain     = '+'
	separator = '_'
	boundary  = '#'
)

// ErrRuleParse is wrapped by every RuleParseError.
var ErrRuleParse = errors.New("rule parse error")

// RuleParseError reports a rule encoding that does not match the grammar.
type RuleParseError struct {
	Input  string
	Reason string
}

func (e *RuleParseError) Error() string {
	return fmt.Sprintf("invalid rule %q: %s", e.Input, e.Reason)
}

func (e *RuleParseError) Unwrap() error { return ErrRuleParse }

// Parse decodes a rule encoding. Leading and trailing spaces are ignored;
// the empty encoding is the identity rule.
func Parse(s string) (Rule, error) {
	input := strings.TrimSpace(s)
	if input == "" {
		return Rule{kind: Simple, steps: []Step{{}}}, nil
	}
	if strings.ContainsFunc(input, unicode.IsSpace) {
		return Rule{}, &RuleParseError{Input: s, Reason: "contains whitespace"}
	}
	if strings.ContainsAny(input, "()") {
		return Rule{}, &RuleParseError{Input: s, Reason: "contains a base(Type) prefix"}
	}

	if !strings.ContainsRune(input, chain) {
		step, err := parseStep(input, false)
		if err != nil {
			return Rule{}, &RuleParseError{Input: s, Reason: err.Error()}
		}
		return Rule{kind: Simple, steps: []Step{step}}, nil
	}

	segments := strings.Split(strings.TrimPrefix(input, string(chain)), string(chain))
	steps := make([]Step, 0, len(segments))
	for i, seg := range segments {
		if seg == "" {
			return Rule{}, &RuleParseError{Input: s, Reason: fmt.Sprintf("empty chain segment %d", i+1)}
		}
		step, err := parseStep(seg, true)
		if err != nil {
			return Rule{}, &RuleParseError{Input: s, Reason: fmt.Sprintf("segment %d: %v", i+1, err)}
		}
		steps = append(steps, step)
	}
	if len(steps) == 1 {
		return Rule{kind: Simple, steps: steps}, nil
	}
	return Rule{kind: Compound, steps: steps}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Rule {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseAll parses every encoding, returning the rules that parsed and the
// errors of those that did not. Callers skip the failures and keep going.
func ParseAll(encodings []string) ([]Rule, []error) {
	rules := make([]Rule, 0, len(encodings))
	var errs []error
	for _, enc := range encodings {
		r, err := Parse(enc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rules = append(rules, r)
	}
	return rules, errs
}

// parseStep decodes "new[_old][_TAG...][#]". In chained segments the
// placeholder "#" stands for an empty old suffix when it is the second
// field and for nothing after that, as in "beku_#_FUT_#_IMPR". A lone
// second field that looks like a tag (PAST, 3SM) is read as a tag.
func parseStep(seg string, compound bool) (Step, error) {
	fields := strings.Split(seg, string(separator))
	if last := fields[len(fields)-1]; len(last) > 1 {
		fields[len(fields)-1] = strings.TrimSuffix(last, string(boundary))
	}

	for i, f := range fields {
		if !strings.ContainsRune(f, boundary) {
			continue
		}
		if f != string(boundary) || i == 0 || (i > 1 && !compound) {
			return Step{}, errors.New("misplaced boundary marker")
		}
	}

	step := Step{New: fields[0]}
	rest := fields[1:]
	if len(rest) > 0 {
		switch {
		case rest[0] == string(boundary):
		case compound && len(rest) == 1 && isTag(rest[0]):
			step.Tags = append(step.Tags, rest[0])
		default:
			step.Old = rest[0]
		}
		for _, tag := range rest[1:] {
			if tag == string(boundary) {
				continue
			}
			if !isTagField(tag) {
				return Step{}, fmt.Errorf("unexpected field %q", tag)
			}
			step.Tags = append(step.Tags, tag)
		}
	}

	if step.New == "" && step.Old == "" {
		return Step{}, errors.New("no suffix to add or remove")
	}
	return step, nil
}

// isTagField accepts upper-case letters and digits.
func isTagField(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// isTag is stricter than isTagField: short upper-case strings such as
// "YU" are valid transliterated suffixes, so a tag needs a digit or at
// least three characters.
func isTag(s string) bool {
	if !isTagField(s) {
		return false
	}
	return len(s) >= 3 || strings.ContainsAny(s, "0123456789")
}
