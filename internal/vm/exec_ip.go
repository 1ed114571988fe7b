package vm

import (
	"regexp"

	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/literal"
	"github.com/contour-terminal/endo/internal/native"
)

func opPLOAD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.push(native.Value{Type: literal.IPAddress, IP: r.Program.Pool.IP(int(ins.Operands[0]))})
	return stepOutcome{}, nil
}

func opPCMPEQ(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.IP == b.IP)
	return stepOutcome{}, nil
}

func opPCMPNE(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	b, a := r.pop(), r.pop()
	pushBool(r, a.IP != b.IP)
	return stepOutcome{}, nil
}

// opPINCIDR pops (ip, cidr) — cidr pushed last, so it's on top — and
// reports whether cidr contains ip.
func opPINCIDR(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	cidr, ip := r.pop(), r.pop()
	pushBool(r, cidr.Cidr.Contains(ip.IP))
	return stepOutcome{}, nil
}

func opCLOAD(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	r.push(native.Value{Type: literal.Cidr, Cidr: r.Program.Pool.Cidr(int(ins.Operands[0]))})
	return stepOutcome{}, nil
}

// compiledRegex returns the cached compiled pattern for a regex-pool
// index, compiling and caching it on first use.
func (r *Runner) compiledRegex(idx int) *regexp.Regexp {
	if r.regexes == nil {
		r.regexes = make(map[int]*regexp.Regexp)
	}
	if re, ok := r.regexes[idx]; ok {
		return re
	}
	re := regexp.MustCompile(r.Program.Pool.RegExp(idx))
	r.regexes[idx] = re
	return re
}

// opSREGMATCH matches the string on top of the stack against the regex
// named by the operand, replacing the run's captured-group context on a
// match (spec.md 4.K, 6).
func opSREGMATCH(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	subject := r.pop()
	re := r.compiledRegex(int(ins.Operands[0]))
	groups := re.FindStringSubmatch(subject.Str)
	if groups != nil {
		r.regexGroups = groups
	}
	pushBool(r, groups != nil)
	return stepOutcome{}, nil
}

// opSREGGROUP pushes the most recently captured group at the given
// index (0 is the whole match); an out-of-range index is an internal
// error, since a program can only emit SREGGROUP with an index it
// statically knows a prior regex op can supply.
func opSREGGROUP(r *Runner, ins bytecode.Instruction) (stepOutcome, error) {
	idx := int(ins.Operands[0])
	if idx < 0 || idx >= len(r.regexGroups) {
		panic("vm: SREGGROUP index out of range of the last regex match's captures")
	}
	pushStr(r, r.newString(r.regexGroups[idx]))
	return stepOutcome{}, nil
}
