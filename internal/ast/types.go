package ast

type NodeType int

const (
	// Special / error
	ILLEGAL NodeType = iota

	// High-level constructs
	FILE
	FUNCTION
	PARAM

	// Statements
	ASSIGN_STMT
	EXPR_STMT
	IF_STMT
	WHILE_STMT
	FOR_STMT
	BREAK_STMT
	CONTINUE_STMT
	GLOBAL_STMT
	COMMENT_STMT

	// Expressions
	IDENT
	NUMBER_LIT
	STRING_LIT
	ACCESS_CALL_EXPR
	CELL_ACCESS_EXPR
	COLON_EXPR
	END_EXPR
	RANGE_EXPR
	SHORT_CIRCUIT_EXPR
	MATRIX_EXPR
	CELL_EXPR
	TILDE_EXPR
)

var nodeTypeNames = [...]string{
	ILLEGAL:            "ILLEGAL",
	FILE:               "FILE",
	FUNCTION:           "FUNCTION",
	PARAM:              "PARAM",
	ASSIGN_STMT:        "ASSIGN_STMT",
	EXPR_STMT:          "EXPR_STMT",
	IF_STMT:            "IF_STMT",
	WHILE_STMT:         "WHILE_STMT",
	FOR_STMT:           "FOR_STMT",
	BREAK_STMT:         "BREAK_STMT",
	CONTINUE_STMT:      "CONTINUE_STMT",
	GLOBAL_STMT:        "GLOBAL_STMT",
	COMMENT_STMT:       "COMMENT_STMT",
	IDENT:              "IDENT",
	NUMBER_LIT:         "NUMBER_LIT",
	STRING_LIT:         "STRING_LIT",
	ACCESS_CALL_EXPR:   "ACCESS_CALL_EXPR",
	CELL_ACCESS_EXPR:   "CELL_ACCESS_EXPR",
	COLON_EXPR:         "COLON_EXPR",
	END_EXPR:           "END_EXPR",
	RANGE_EXPR:         "RANGE_EXPR",
	SHORT_CIRCUIT_EXPR: "SHORT_CIRCUIT_EXPR",
	MATRIX_EXPR:        "MATRIX_EXPR",
	CELL_EXPR:          "CELL_EXPR",
	TILDE_EXPR:         "TILDE_EXPR",
}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return "NodeType(?)"
	}
	return nodeTypeNames[t]
}
