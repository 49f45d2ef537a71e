// Package command implements the literal/argument command trie (C7):
// registration at startup, serialization to the client via
// packets.Commands, and dispatch of a parsed chat/console line against
// the registered tree.
package command
