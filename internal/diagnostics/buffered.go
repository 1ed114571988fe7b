package diagnostics

// BufferedReport accumulates every pushed message for later inspection,
// supports equality and set-difference between reports (used by tests),
// and exposes iteration (spec.md 4.B).
type BufferedReport struct {
	Messages []Message
}

func NewBufferedReport() *BufferedReport {
	return &BufferedReport{}
}

func (r *BufferedReport) Push(m Message) {
	r.Messages = append(r.Messages, m)
}

func (r *BufferedReport) TokenErrorf(rng Range, format string, args ...any) {
	pushf(r, TokenError, rng, format, args...)
}
func (r *BufferedReport) SyntaxErrorf(rng Range, format string, args ...any) {
	pushf(r, SyntaxError, rng, format, args...)
}
func (r *BufferedReport) TypeErrorf(rng Range, format string, args ...any) {
	pushf(r, TypeError, rng, format, args...)
}
func (r *BufferedReport) Warningf(rng Range, format string, args ...any) {
	pushf(r, Warning, rng, format, args...)
}
func (r *BufferedReport) LinkErrorf(rng Range, format string, args ...any) {
	pushf(r, LinkError, rng, format, args...)
}

func (r *BufferedReport) ContainsFailures() bool {
	for _, m := range r.Messages {
		if m.Kind.IsFailure() {
			return true
		}
	}
	return false
}

// Len/At give iteration without exposing the backing slice for mutation.
func (r *BufferedReport) Len() int        { return len(r.Messages) }
func (r *BufferedReport) At(i int) Message { return r.Messages[i] }

// Equal reports whether two buffered reports hold the same multiset of
// messages under Message.Equal.
func (r *BufferedReport) Equal(other *BufferedReport) bool {
	inA, inB := Difference(r, other)
	return len(inA) == 0 && len(inB) == 0
}

// Difference returns (messages in a not in b, messages in b not in a)
// using Message.Equal, which ignores filename and end location, per
// spec.md 4.B. Each message is matched at most once on either side, so
// duplicate messages are accounted for correctly.
func Difference(a, b *BufferedReport) (inANotB, inBNotA []Message) {
	bUsed := make([]bool, len(b.Messages))
	for _, ma := range a.Messages {
		found := false
		for i, mb := range b.Messages {
			if bUsed[i] {
				continue
			}
			if ma.Equal(mb) {
				bUsed[i] = true
				found = true
				break
			}
		}
		if !found {
			inANotB = append(inANotB, ma)
		}
	}
	for i, mb := range b.Messages {
		if !bUsed[i] {
			inBNotA = append(inBNotA, mb)
		}
	}
	return inANotB, inBNotA
}

var _ Report = (*BufferedReport)(nil)
