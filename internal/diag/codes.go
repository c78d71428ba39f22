package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Parser diagnostics carried in from AST documents.
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectExpression Code = 2003
	SynExpectIdentifier Code = 2004
	SynUnclosedDelim    Code = 2005

	// IR lowering.
	LowInfo                Code = 4000
	LowAssignTarget        Code = 4001
	LowUnsupportedOperator Code = 4002
	LowDivisionByZero      Code = 4003
	LowFoldOperandMismatch Code = 4004
	LowMissingNode         Code = 4005
	LowUnknownStatement    Code = 4006
	LowUnknownExpression   Code = 4007
	LowUnreachableCode     Code = 4008

	// Document IO.
	IOLoadFileError Code = 5001
	IODecodeError   Code = 5002
	IOSchemaVersion Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	SynInfo:                "Syntax information",
	SynUnexpectedToken:     "Unexpected token",
	SynExpectSemicolon:     "Expected semicolon",
	SynExpectExpression:    "Expected expression",
	SynExpectIdentifier:    "Expected identifier",
	SynUnclosedDelim:       "Unclosed delimiter",
	LowInfo:                "Lowering information",
	LowAssignTarget:        "Assignment target is not a name",
	LowUnsupportedOperator: "Operator has no IR equivalent",
	LowDivisionByZero:      "Constant division by zero",
	LowFoldOperandMismatch: "Operator is not defined for constant operands",
	LowMissingNode:         "Missing AST node",
	LowUnknownStatement:    "Unknown statement kind",
	LowUnknownExpression:   "Unknown expression kind",
	LowUnreachableCode:     "Unreachable code",
	IOLoadFileError:        "Failed to load file",
	IODecodeError:          "Failed to decode AST document",
	IOSchemaVersion:        "Unsupported AST document schema",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
