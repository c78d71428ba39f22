package ir

import (
	"fmt"
	"io"
	"strings"
)

// DumpOptions configures Dump.
type DumpOptions struct {
	Preds           bool // list predecessors next to each label
	HideUnreachable bool // skip blocks not reachable from Entry
}

// Dump writes every block in id order. Successors are referenced as bbN, so a
// merge block shared by two arms is printed once.
func Dump(w io.Writer, p *Program, opts DumpOptions) error {
	if w == nil || p == nil {
		return nil
	}
	reachable := p.Reachable()
	var sb strings.Builder
	for i := range p.Blocks {
		if opts.HideUnreachable && !reachable[i] {
			continue
		}
		p.writeBlock(&sb, &p.Blocks[i], opts.Preds, !reachable[i])
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatBlock renders one block without predecessor information.
func (p *Program) FormatBlock(id BlockID) string {
	b := p.Block(id)
	if b == nil {
		return fmt.Sprintf("bb%d: <missing>\n", id)
	}
	var sb strings.Builder
	p.writeBlock(&sb, b, false, false)
	return sb.String()
}

func (p *Program) writeBlock(sb *strings.Builder, b *Block, preds, unreachable bool) {
	fmt.Fprintf(sb, "bb%d:", b.ID)
	if preds {
		sb.WriteString(" ; preds:")
		if len(b.Preds) == 0 {
			sb.WriteString(" none")
		}
		for i, pr := range b.Preds {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(sb, " bb%d", pr)
		}
	}
	if unreachable {
		sb.WriteString(" ; unreachable")
	}
	sb.WriteByte('\n')
	for _, a := range b.Assigns {
		fmt.Fprintf(sb, "  %s\n", p.FormatValue(a))
	}
	fmt.Fprintf(sb, "  %s\n", p.FormatTerm(&b.Term))
}

// FormatValue renders a value in source-like infix form.
func (p *Program) FormatValue(id ValueID) string {
	v := p.Value(id)
	if v == nil {
		return "<missing>"
	}
	switch v.Kind {
	case ValueNone:
		return "NONE"
	case ValueConst:
		return v.Const.Lit.String()
	case ValueIdent:
		return v.Ident.Name
	case ValueUnary:
		return v.Unary.Op.String() + p.FormatValue(v.Unary.Operand)
	case ValueBinary:
		return fmt.Sprintf("%s %s %s", p.FormatValue(v.Binary.Left), v.Binary.Op, p.FormatValue(v.Binary.Right))
	case ValueCall:
		args := make([]string, len(v.Call.Args))
		for i, a := range v.Call.Args {
			args[i] = p.FormatValue(a)
		}
		return fmt.Sprintf("%s(%s)", v.Call.Target, strings.Join(args, ", "))
	case ValueAssign:
		return fmt.Sprintf("%s = %s", v.Assign.Variable, p.FormatValue(v.Assign.Value))
	default:
		return "<value?>"
	}
}

func (p *Program) FormatTerm(t *Terminator) string {
	if t == nil {
		return "no terminator"
	}
	switch t.Kind {
	case TermNone:
		return "no terminator"
	case TermHalt:
		return "halt"
	case TermReturn:
		return "return " + p.FormatValue(t.Return.Value)
	case TermYield:
		return "yield " + p.FormatValue(t.Yield.Value)
	case TermBreak:
		return fmt.Sprintf("break bb%d", t.Break.Target)
	case TermBranch:
		return fmt.Sprintf("branch bb%d", t.Branch.Target)
	case TermCondBranch:
		c := t.CondBranch
		return fmt.Sprintf("if %s then bb%d else bb%d", p.FormatValue(c.Cond), c.Then, c.Else)
	default:
		return "<term?>"
	}
}
