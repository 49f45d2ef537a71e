package command

import (
	"fmt"
	"strconv"

	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
)

// ArgumentType is a typed command argument: it names the brigadier
// parser the client should use for suggestions/validation, the
// parser's property bytes, and parses the matching token(s) server
// side during dispatch.
type ArgumentType interface {
	// ParserID is the brigadier parser identifier, e.g. "brigadier:integer".
	ParserID() ns.Identifier
	// EncodeProperties writes the parser-specific property bytes, or
	// nil if the parser takes no properties.
	EncodeProperties() ([]byte, error)
	// Parse consumes one or more tokens starting at tokens[0] and
	// returns the typed value plus how many tokens it consumed.
	Parse(tokens []string) (value any, consumed int, err error)
}

// greedy string modes, per brigadier:string's VarInt property.
const (
	stringModeSingleWord    ns.VarInt = 0
	stringModeQuotablePhrase ns.VarInt = 1
	stringModeGreedyPhrase  ns.VarInt = 2
)

// StringArgument parses a single word, a quoted phrase, or the rest of
// the line, per brigadier:string's three modes.
type StringArgument struct {
	Greedy  bool
	Phrase  bool // quotable phrase; ignored when Greedy is set
}

func (StringArgument) ParserID() ns.Identifier { return "brigadier:string" }

func (a StringArgument) EncodeProperties() ([]byte, error) {
	mode := stringModeSingleWord
	if a.Greedy {
		mode = stringModeGreedyPhrase
	} else if a.Phrase {
		mode = stringModeQuotablePhrase
	}
	buf := ns.NewWriter()
	if err := buf.WriteVarInt(mode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse treats a quotable phrase as a single word; quote-aware
// tokenization isn't implemented since no in-scope command needs it.
func (a StringArgument) Parse(tokens []string) (any, int, error) {
	if len(tokens) == 0 {
		return nil, 0, fmt.Errorf("command: missing string argument")
	}
	if a.Greedy {
		return joinTokens(tokens), len(tokens), nil
	}
	return tokens[0], 1, nil
}

func joinTokens(tokens []string) string {
	out := tokens[0]
	for _, t := range tokens[1:] {
		out += " " + t
	}
	return out
}

// IntegerArgument parses a base-10 int32, optionally bounded.
type IntegerArgument struct {
	HasMin, HasMax bool
	Min, Max       int32
}

func (IntegerArgument) ParserID() ns.Identifier { return "brigadier:integer" }

func (a IntegerArgument) EncodeProperties() ([]byte, error) {
	var flags ns.Uint8
	if a.HasMin {
		flags |= 0x01
	}
	if a.HasMax {
		flags |= 0x02
	}
	buf := ns.NewWriter()
	if err := buf.WriteUint8(flags); err != nil {
		return nil, err
	}
	if a.HasMin {
		if err := buf.WriteInt32(ns.Int32(a.Min)); err != nil {
			return nil, err
		}
	}
	if a.HasMax {
		if err := buf.WriteInt32(ns.Int32(a.Max)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (a IntegerArgument) Parse(tokens []string) (any, int, error) {
	if len(tokens) == 0 {
		return nil, 0, fmt.Errorf("command: missing integer argument")
	}
	v, err := strconv.ParseInt(tokens[0], 10, 32)
	if err != nil {
		return nil, 0, fmt.Errorf("command: %q is not an integer", tokens[0])
	}
	n := int32(v)
	if a.HasMin && n < a.Min {
		return nil, 0, fmt.Errorf("command: %d is below the minimum %d", n, a.Min)
	}
	if a.HasMax && n > a.Max {
		return nil, 0, fmt.Errorf("command: %d is above the maximum %d", n, a.Max)
	}
	return n, 1, nil
}

// BoolArgument parses "true"/"false"; brigadier:bool takes no properties.
type BoolArgument struct{}

func (BoolArgument) ParserID() ns.Identifier            { return "brigadier:bool" }
func (BoolArgument) EncodeProperties() ([]byte, error)  { return nil, nil }

func (BoolArgument) Parse(tokens []string) (any, int, error) {
	if len(tokens) == 0 {
		return nil, 0, fmt.Errorf("command: missing boolean argument")
	}
	switch tokens[0] {
	case "true":
		return true, 1, nil
	case "false":
		return false, 1, nil
	default:
		return nil, 0, fmt.Errorf("command: %q is not true or false", tokens[0])
	}
}
