package ir

import (
	"slices"

	"flexir/internal/source"
)

// Block is a basic block: assignments in order, then one terminator.
type Block struct {
	ID      BlockID
	Origin  source.Span
	Assigns []ValueID // each a ValueAssign
	Preds   []BlockID
	Term    Terminator
	Sealed  bool
}

// Filled reports whether the block already has a terminator.
func (b *Block) Filled() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}

// AddAssignment appends v even after the block is filled.
func (b *Block) AddAssignment(v ValueID) {
	b.Assigns = append(b.Assigns, v)
}

func (b *Block) addPredecessor(p BlockID) {
	b.Preds = append(b.Preds, p)
}

// RemovePredecessor drops the first occurrence of p.
func (b *Block) RemovePredecessor(p BlockID) bool {
	i := slices.Index(b.Preds, p)
	if i < 0 {
		return false
	}
	b.Preds = slices.Delete(b.Preds, i, i+1)
	return true
}

// Seal marks the predecessor list complete. Nothing else depends on it yet.
func (b *Block) Seal() {
	b.Sealed = true
}

// AddCall records a bare call statement. Calls are not connected to the graph,
// so this never appends an assignment or a terminator.
func (b *Block) AddCall(target string, args []ValueID) {
	_, _ = target, args
}
