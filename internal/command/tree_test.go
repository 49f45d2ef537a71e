package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name    string
	replies []string
}

func (f *fakeSource) Reply(message string) { f.replies = append(f.replies, message) }
func (f *fakeSource) Name() string         { return f.name }

func TestDispatchLiteralCommand(t *testing.T) {
	tree := NewTree()
	var ran bool
	tree.Register(Literal("spawn").Executes(func(ctx *Context) error {
		ran = true
		return nil
	}))

	err := tree.Dispatch(&fakeSource{name: "Steve"}, "spawn")
	require.NoError(t, err)
	require.True(t, ran)
}

func TestDispatchArgumentCommand(t *testing.T) {
	tree := NewTree()
	var got int32
	tree.Register(Literal("tp").Then(Argument("distance", IntegerArgument{}).Executes(func(ctx *Context) error {
		got = ctx.Int("distance")
		return nil
	})))

	err := tree.Dispatch(&fakeSource{}, "tp 42")
	require.NoError(t, err)
	require.Equal(t, int32(42), got)
}

func TestDispatchPrefersLiteralOverArgument(t *testing.T) {
	tree := NewTree()
	var branch string
	gamemode := Literal("gamemode")
	gamemode.Then(Literal("survival").Executes(func(ctx *Context) error {
		branch = "literal"
		return nil
	}))
	gamemode.Then(Argument("mode", StringArgument{}).Executes(func(ctx *Context) error {
		branch = "argument"
		return nil
	}))
	tree.Register(gamemode)

	err := tree.Dispatch(&fakeSource{}, "gamemode survival")
	require.NoError(t, err)
	require.Equal(t, "literal", branch)
}

func TestDispatchUnknownCommand(t *testing.T) {
	tree := NewTree()
	tree.Register(Literal("spawn").Executes(func(ctx *Context) error { return nil }))

	err := tree.Dispatch(&fakeSource{}, "nope")
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestDispatchOutOfRangeInteger(t *testing.T) {
	tree := NewTree()
	tree.Register(Literal("setlevel").Then(
		Argument("level", IntegerArgument{HasMin: true, Min: 0, HasMax: true, Max: 10}).
			Executes(func(ctx *Context) error { return nil }),
	))

	err := tree.Dispatch(&fakeSource{}, "setlevel 99")
	require.Error(t, err)
}

func TestEncodeProducesRootAndChildren(t *testing.T) {
	tree := NewTree()
	tree.Register(Literal("help").Executes(func(ctx *Context) error { return nil }))
	tree.Register(Literal("tp").Then(Argument("target", StringArgument{}).Executes(func(ctx *Context) error { return nil })))

	pkt, err := tree.Encode()
	require.NoError(t, err)
	require.True(t, len(pkt.Nodes) >= 4) // root, help, tp, target
	root := pkt.Nodes[pkt.RootIndex]
	require.Len(t, root.Children, 2)
}
