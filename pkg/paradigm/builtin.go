package paradigm

import (
	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/rule"
)

var (
	pronounCaseU  = []string{"annu_u#", "inda_u#", "ige_u#", "a_u#", "alli_u#"}
	pronounCaseYU = []string{"annu_YU#", "inda_YU#", "ige_YU#", "a_YU#", "alli_YU#"}
	nounCaseA     = []string{"annu_a#", "inda_a#", "ige_a#", "ana_a#", "analli_a#"}
)

// Builtin returns a small seed set of pronoun and noun paradigms that is
// always available, even without a paradigm source.
func Builtin() []Root {
	return []Root{
		builtin("avaru", category.Pronoun, pronounCaseU, "ivaru", "yAru", "evaru"),
		builtin("avanu", category.Pronoun, pronounCaseU, "ivanu", "yAvanu", "evanu"),
		builtin("avalYu", category.Pronoun, pronounCaseYU, "ivalYu", "yAvalYu", "evalYu"),
		builtin("akka", category.Noun, []string{"nnu_a#", "inda_a#", "ige_a#", "na_a#", "analli_a#"}),
		builtin("amma", category.Noun, nounCaseA),
		builtin("avva", category.Noun, nounCaseA),
		builtin("magu", category.Noun, []string{"ina_u#", "annu_u#", "ige_u#", "alli_u#", "uanalli_u#"}, "nagu"),
		builtin("huduga", category.Noun, nounCaseA, "hudugi", "magalu"),
	}
}

func builtin(stem string, c category.Category, rules []string, variants ...string) Root {
	parsed := make([]rule.Rule, len(rules))
	for i, r := range rules {
		parsed[i] = rule.MustParse(r)
	}
	return Root{Stem: stem, Category: c, Rules: parsed, Variants: variants}
}
