package ir

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate checks graph invariants and returns every violation joined.
func Validate(p *Program) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.Block(p.Entry) == nil {
		errs = append(errs, fmt.Errorf("entry block bb%d does not exist", p.Entry))
		return errors.Join(errs...)
	}

	reachable := p.Reachable()
	for i := range p.Blocks {
		b := &p.Blocks[i]
		if b.ID != BlockID(i) { //nolint:gosec // i fits, ids come from NewBlock
			errs = append(errs, fmt.Errorf("block at index %d has id bb%d", i, b.ID))
		}
		if reachable[i] && !b.Filled() {
			errs = append(errs, fmt.Errorf("bb%d: reachable block has no terminator", b.ID))
		}
		errs = append(errs, p.validateEdges(b)...)
		errs = append(errs, p.validateAssigns(b)...)
		if op := b.Term.Operand(); b.Term.Kind != TermNone && b.Term.Kind != TermHalt &&
			b.Term.Kind != TermBranch && b.Term.Kind != TermBreak && p.Value(op) == nil {
			errs = append(errs, fmt.Errorf("bb%d: %s reads missing value %%%d", b.ID, b.Term.Kind, op))
		}
	}
	return errors.Join(errs...)
}

// validateEdges checks that targets exist and list b among their predecessors.
func (p *Program) validateEdges(b *Block) []error {
	var errs []error
	for _, s := range b.Term.Successors() {
		target := p.Block(s)
		if target == nil {
			errs = append(errs, fmt.Errorf("bb%d: %s targets missing block bb%d", b.ID, b.Term.Kind, s))
			continue
		}
		if !slices.Contains(target.Preds, b.ID) {
			errs = append(errs, fmt.Errorf("bb%d: not recorded as predecessor of bb%d", b.ID, s))
		}
	}
	for _, pr := range b.Preds {
		if !slices.Contains(p.Successors(pr), b.ID) {
			errs = append(errs, fmt.Errorf("bb%d: predecessor bb%d does not branch here", b.ID, pr))
		}
	}
	return errs
}

// validateAssigns checks the three-address shape of b's assignments and that
// no temporary is assigned twice in one block.
func (p *Program) validateAssigns(b *Block) []error {
	var errs []error
	temps := make(map[string]bool)
	for _, id := range b.Assigns {
		v := p.Value(id)
		if v == nil || v.Kind != ValueAssign {
			errs = append(errs, fmt.Errorf("bb%d: entry %%%d is not an assignment", b.ID, id))
			continue
		}
		name := v.Assign.Variable
		if p.TempPrefix != "" && strings.HasPrefix(name, p.TempPrefix) {
			if temps[name] {
				errs = append(errs, fmt.Errorf("bb%d: temporary %s assigned twice", b.ID, name))
			}
			temps[name] = true
		}
		errs = append(errs, p.validateOperands(b.ID, v.Assign.Value)...)
	}
	return errs
}

func (p *Program) validateOperands(bb BlockID, id ValueID) []error {
	v := p.Value(id)
	if v == nil {
		return []error{fmt.Errorf("bb%d: missing value %%%d", bb, id)}
	}
	var errs []error
	check := func(op ValueID) {
		if !p.Value(op).IsOperand() {
			errs = append(errs, fmt.Errorf("bb%d: operand %s of %q is not a constant or name", bb, p.FormatValue(op), p.FormatValue(id)))
		}
	}
	switch v.Kind {
	case ValueBinary:
		check(v.Binary.Left)
		check(v.Binary.Right)
	case ValueUnary:
		check(v.Unary.Operand)
	case ValueCall:
		for _, a := range v.Call.Args {
			check(a)
		}
	case ValueAssign:
		errs = append(errs, p.validateOperands(bb, v.Assign.Value)...)
	}
	return errs
}
