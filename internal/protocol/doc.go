// Package protocol implements the per-connection state machine (C4):
// Handshake -> (Status | Login) -> Configuration -> Play. A Connection
// owns one transport.Pipeline and drives it through each state in turn,
// delegating authentication to internal/auth and handing the finished
// session to an internal/tick.Loop once Play begins.
package protocol
