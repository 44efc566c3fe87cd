package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwType represents the 'type' keyword.
	KwType // type
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum

	// IntLit represents the integer literal token.
	IntLit
	// StringLit represents the string literal token.
	StringLit

	Assign    // =
	Colon     // :
	Comma     // ,
	Semicolon // ;
	Question  // ?
	At        // @
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	Lt        // <
	Gt        // >
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	KwType:    "KwType",
	KwEnum:    "KwEnum",
	IntLit:    "IntLit",
	StringLit: "StringLit",
	Assign:    "Assign",
	Colon:     "Colon",
	Comma:     "Comma",
	Semicolon: "Semicolon",
	Question:  "Question",
	At:        "At",
	LParen:    "LParen",
	RParen:    "RParen",
	LBrace:    "LBrace",
	RBrace:    "RBrace",
	Lt:        "Lt",
	Gt:        "Gt",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
