// Package tick drives the fixed 20 Hz world loop (C7): draining inbound
// player packets, advancing player/world state, streaming chunks
// through each player's view window, and fanning out broadcasts. It is
// the only goroutine that mutates world or player state; everything
// else reaches it through bounded queues.
package tick
