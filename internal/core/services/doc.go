// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services hold no infrastructure of their own; storage, embedding,
// and serialization are reached through the driven ports.
package services
