// Package domain contains the core types of the design index: the parsed
// presentation contract, the three chunk record granularities (deck, slide,
// element), phrase triggers, feedback events, and search types.
//
// Domain types are plain structs with no infrastructure dependencies.
// Adapters (SQLite storage, embedding backends, CLI) depend on this package,
// never the other way around.
package domain
