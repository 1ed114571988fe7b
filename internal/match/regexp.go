package match

import (
	"regexp"

	"github.com/contour-terminal/endo/internal/bytecode"
)

// regexCase pairs a compiled pattern with the case it dispatches to;
// regexDispatcher tries each in declaration order and takes the first
// match, so overlapping patterns are resolved by case order rather than
// specificity.
type regexCase struct {
	re *regexp.Regexp
	pc int
}

type regexDispatcher struct {
	cases  []regexCase
	elsePC int
}

// buildRegExp compiles every case label as a regular expression. A case
// label that fails to compile is a program that should never have
// linked; it panics rather than silently falling through to elsePC.
func buildRegExp(pool *bytecode.ConstantPool, def *bytecode.MatchDef) *regexDispatcher {
	d := &regexDispatcher{elsePC: def.ElsePC}
	for _, c := range def.Cases {
		d.cases = append(d.cases, regexCase{
			re: regexp.MustCompile(pool.String(c.LabelIndex)),
			pc: c.PC,
		})
	}
	return d
}

// Evaluate returns the first matching case's PC along with its
// captured groups (index 0 is the whole match, mirroring
// regexp.FindStringSubmatch), for the runner to stash into its regex
// context for later SREGGROUP retrieval. A miss returns elsePC and nil
// groups.
func (d *regexDispatcher) Evaluate(subject string) (int, []string) {
	for _, c := range d.cases {
		if groups := c.re.FindStringSubmatch(subject); groups != nil {
			return c.pc, groups
		}
	}
	return d.elsePC, nil
}
