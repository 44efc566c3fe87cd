package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// syntax
	SynUnexpectedToken    Code = 2001
	SynUnexpectedTopLevel Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectEquals       Code = 2004
	SynExpectBody         Code = 2005
	SynExpectRBrace       Code = 2006
	SynExpectColon        Code = 2007
	SynExpectType         Code = 2008
	SynExpectRParen       Code = 2009
	SynExpectRAngle       Code = 2010
	SynExpectInteger      Code = 2011

	// expansion of attributes and shape checks
	ExpUnknownAttr          Code = 2501
	ExpAttrNotAllowed       Code = 2502
	ExpAttrBadArgument      Code = 2503
	ExpDuplicateMember      Code = 2504
	ExpDuplicateDiscr       Code = 2505
	ExpDiscrOverflow        Code = 2506
	ExpBadRepr              Code = 2507
	ExpUnknownContainer     Code = 2508
	ExpPackedAlign          Code = 2509
	ExpAlignNotPowerOfTwo   Code = 2510
	ExpDuplicateAttr        Code = 2511
	ExpInheritOnStruct      Code = 2512
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	SynUnexpectedToken:          "Unexpected token",
	SynUnexpectedTopLevel:       "Expected 'type' or 'enum' item",
	SynExpectIdentifier:         "Expect identifier",
	SynExpectEquals:             "Expected '=' in declaration",
	SynExpectBody:               "Expected '{' for declaration body",
	SynExpectRBrace:             "Expected '}' after declaration body",
	SynExpectColon:              "Expect colon",
	SynExpectType:               "Expect type",
	SynExpectRParen:             "Expect ')'",
	SynExpectRAngle:             "Expect '>'",
	SynExpectInteger:            "Expect integer literal",
	ExpUnknownAttr:              "Unknown attribute",
	ExpAttrNotAllowed:           "Attribute not allowed here",
	ExpAttrBadArgument:          "Invalid attribute argument",
	ExpDuplicateMember:          "Duplicate field or variant",
	ExpDuplicateDiscr:           "Duplicate discriminant",
	ExpDiscrOverflow:            "Discriminant does not fit the enum tag",
	ExpBadRepr:                  "Invalid enum tag type",
	ExpUnknownContainer:         "Unknown generic container",
	ExpPackedAlign:              "@packed conflicts with @align",
	ExpAlignNotPowerOfTwo:       "@align requires a power of two",
	ExpDuplicateAttr:            "Duplicate attribute",
	ExpInheritOnStruct:          "@inherit is only valid on enums",
}

func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 2500:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2500 && ic < 3000:
		return fmt.Sprintf("EXP%04d", ic)
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
