package ir

type TermKind uint8

const (
	// TermNone marks an open block.
	TermNone TermKind = iota
	TermHalt
	TermReturn
	TermYield
	TermBreak
	TermBranch
	TermCondBranch
)

func (k TermKind) String() string {
	switch k {
	case TermNone:
		return "none"
	case TermHalt:
		return "halt"
	case TermReturn:
		return "return"
	case TermYield:
		return "yield"
	case TermBreak:
		return "break"
	case TermBranch:
		return "branch"
	case TermCondBranch:
		return "cond_branch"
	default:
		return "term?"
	}
}

type Terminator struct {
	Kind TermKind

	Return     ReturnTerm
	Yield      YieldTerm
	Break      BreakTerm
	Branch     BranchTerm
	CondBranch CondBranchTerm
}

type ReturnTerm struct {
	Value ValueID
}

type YieldTerm struct {
	Value ValueID
}

type BreakTerm struct {
	Target BlockID
}

type BranchTerm struct {
	Target BlockID
}

type CondBranchTerm struct {
	Cond ValueID
	Then BlockID
	Else BlockID
}

// Successors lists the blocks t transfers control to.
func (t *Terminator) Successors() []BlockID {
	switch t.Kind {
	case TermBreak:
		return []BlockID{t.Break.Target}
	case TermBranch:
		return []BlockID{t.Branch.Target}
	case TermCondBranch:
		if t.CondBranch.Then == t.CondBranch.Else {
			return []BlockID{t.CondBranch.Then}
		}
		return []BlockID{t.CondBranch.Then, t.CondBranch.Else}
	default:
		return nil
	}
}

// Operand returns the value a terminator reads: the return or yield value, or the branch condition.
func (t *Terminator) Operand() ValueID {
	switch t.Kind {
	case TermReturn:
		return t.Return.Value
	case TermYield:
		return t.Yield.Value
	case TermCondBranch:
		return t.CondBranch.Cond
	default:
		return NoValueID
	}
}
