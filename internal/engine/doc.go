// Package engine implements the authoritative rules of a match: the
// turn/phase state machine, movement, pricing and rent, event cards,
// bankruptcy, auctions, trades, seasons and win conditions.
//
// The engine performs no I/O. Configuration, board data, decks, the
// character roster and the random source are injected at construction
// and treated as immutable. Every command is applied as one atomic,
// synchronous transition; rule violations are returned as errors and
// leave the state untouched. Given the same setup, command sequence and
// random values, the resulting state sequence is bit-for-bit identical.
package engine
