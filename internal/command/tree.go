package command

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tn-lorenz/SteelMC/internal/packets"
	ns "github.com/tn-lorenz/SteelMC/internal/netcode"
)

// Source is whatever invoked a command: a connected player or the
// console. Commands read it to know who to reply to and what they are
// allowed to run.
type Source interface {
	// Reply sends a feedback line back to the invoker, e.g. as a
	// ClientboundSystemChat in the player case.
	Reply(message string)
	// Name identifies the source for logging and feedback lines.
	Name() string
}

// Context carries one dispatched command's parsed arguments.
type Context struct {
	Source Source
	Args   map[string]any
}

// Int returns the parsed int32 value of a registered IntegerArgument,
// or 0 if name wasn't matched.
func (c *Context) Int(name string) int32 {
	v, _ := c.Args[name].(int32)
	return v
}

// String returns the parsed string value of a registered
// StringArgument, or "" if name wasn't matched.
func (c *Context) String(name string) string {
	v, _ := c.Args[name].(string)
	return v
}

// Bool returns the parsed bool value of a registered BoolArgument.
func (c *Context) Bool(name string) bool {
	v, _ := c.Args[name].(bool)
	return v
}

// Tree is the full, registered command graph. Register commands during
// startup before calling Encode or Dispatch; Tree has no open/frozen
// lifecycle of its own, but in practice all registration happens
// before the first player joins.
type Tree struct {
	mu   sync.RWMutex
	root *Node
}

// NewTree creates an empty command tree.
func NewTree() *Tree {
	return &Tree{root: newRoot()}
}

// Register adds cmd (built with Literal(...).Then(...)) as a top-level
// command.
func (t *Tree) Register(cmd *Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root.Then(cmd)
}

// Encode flattens the tree into the packets.Commands wire form: a
// depth-first list of nodes with Children/RedirectTo expressed as
// indices into that list.
func (t *Tree) Encode() (*packets.Commands, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var nodes []packets.CommandNode
	indexOf := make(map[*Node]int32)

	var visit func(n *Node) (int32, error)
	visit = func(n *Node) (int32, error) {
		if idx, ok := indexOf[n]; ok {
			return idx, nil
		}
		idx := int32(len(nodes))
		nodes = append(nodes, packets.CommandNode{}) // reserve the slot
		indexOf[n] = idx

		children := make(ns.PrefixedArray[ns.VarInt], 0, len(n.children))
		for _, child := range n.children {
			childIdx, err := visit(child)
			if err != nil {
				return 0, err
			}
			children = append(children, ns.VarInt(childIdx))
		}

		cn := packets.CommandNode{Flags: ns.Uint8(n.flags()), Children: children}
		if n.Type == NodeLiteral || n.Type == NodeArgument {
			cn.Name = ns.Some(ns.String(n.Name))
		}
		if n.Type == NodeArgument {
			cn.Parser = ns.Some(ns.String(n.Arg.ParserID()))
			props, err := n.Arg.EncodeProperties()
			if err != nil {
				return 0, fmt.Errorf("command: encoding properties for %q: %w", n.Name, err)
			}
			cn.Properties = props
		}
		if n.suggestionsType != "" {
			cn.SuggestionsType = ns.Some(ns.Identifier(n.suggestionsType))
		}
		nodes[idx] = cn
		return idx, nil
	}

	rootIdx, err := visit(t.root)
	if err != nil {
		return nil, err
	}

	arr := make(ns.PrefixedArray[packets.CommandNode], len(nodes))
	copy(arr, nodes)
	return &packets.Commands{Nodes: arr, RootIndex: ns.VarInt(rootIdx)}, nil
}

// ErrUnknownCommand is returned by Dispatch when no literal at the root
// matches the input's first token.
var ErrUnknownCommand = fmt.Errorf("command: unknown command")

// Dispatch tokenizes line on whitespace and walks the tree, preferring
// literal matches over argument matches at each step, invoking the
// deepest matching node's Executor. line must not include the leading
// "/".
func (t *Tree) Dispatch(source Source, line string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return ErrUnknownCommand
	}

	ctx := &Context{Source: source, Args: make(map[string]any)}
	node := t.root
	for len(tokens) > 0 {
		next, consumed, err := matchChild(node, tokens, ctx)
		if err != nil {
			return err
		}
		if next == nil {
			return ErrUnknownCommand
		}
		node = next
		tokens = tokens[consumed:]
	}

	if node.executor == nil {
		return fmt.Errorf("command: incomplete command")
	}
	return node.executor(ctx)
}

// matchChild finds the child of node that matches the next token(s),
// trying literals before arguments (vanilla's ambiguity rule).
func matchChild(node *Node, tokens []string, ctx *Context) (*Node, int, error) {
	for _, child := range node.children {
		if child.Type == NodeLiteral && child.Name == tokens[0] {
			return child, 1, nil
		}
	}
	for _, child := range node.children {
		if child.Type != NodeArgument {
			continue
		}
		value, consumed, err := child.Arg.Parse(tokens)
		if err != nil {
			continue
		}
		ctx.Args[child.Name] = value
		return child, consumed, nil
	}
	return nil, 0, nil
}
