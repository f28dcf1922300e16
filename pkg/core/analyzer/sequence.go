package analyzer

// Sequence hands out increasing identifiers for the groups of one
// layout pass.
type Sequence struct {
	next int
}

// Next returns the next identifier, starting at 1.
func (s *Sequence) Next() int {
	s.next++
	return s.next
}

// Last returns the most recent identifier, 0 before the first call.
func (s *Sequence) Last() int { return s.next }
