package types

// Trinary models the three-valued answer to "is A a supertype of B".
type Trinary int

const (
	No Trinary = iota
	Maybe
	Yes
)

func (t Trinary) String() string {
	switch t {
	case No:
		return "No"
	case Maybe:
		return "Maybe"
	case Yes:
		return "Yes"
	default:
		return "Unknown"
	}
}

// Yes reports whether the answer is a definite yes.
func (t Trinary) Yes() bool { return t == Yes }

// No reports whether the answer is a definite no.
func (t Trinary) No() bool { return t == No }

// And returns the greatest lower bound.
func (t Trinary) And(other Trinary) Trinary {
	if other < t {
		return other
	}
	return t
}

// Or returns the least upper bound.
func (t Trinary) Or(other Trinary) Trinary {
	if other > t {
		return other
	}
	return t
}

// Negate swaps Yes and No.
func (t Trinary) Negate() Trinary {
	return Yes - t
}

// ExtremeIdentity returns the shared answer when all operands agree and
// Maybe otherwise. An empty operand list yields Yes.
func ExtremeIdentity(operands ...Trinary) Trinary {
	if len(operands) == 0 {
		return Yes
	}
	first := operands[0]
	for _, op := range operands[1:] {
		if op != first {
			return Maybe
		}
	}
	return first
}

func fromBool(b bool) Trinary {
	if b {
		return Yes
	}
	return No
}
