package match

import "github.com/contour-terminal/endo/internal/bytecode"

// sameDispatcher is the MatchSame discipline: a plain hash lookup from
// the exact case label to its PC.
type sameDispatcher struct {
	cases  map[string]int
	elsePC int
}

func buildSame(pool *bytecode.ConstantPool, def *bytecode.MatchDef) *sameDispatcher {
	d := &sameDispatcher{
		cases:  make(map[string]int, len(def.Cases)),
		elsePC: def.ElsePC,
	}
	for _, c := range def.Cases {
		d.cases[pool.String(c.LabelIndex)] = c.PC
	}
	return d
}

func (d *sameDispatcher) Evaluate(subject string) (int, []string) {
	if pc, ok := d.cases[subject]; ok {
		return pc, nil
	}
	return d.elsePC, nil
}
