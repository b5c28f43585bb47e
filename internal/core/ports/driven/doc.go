// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the index store, embedding backends, the
// slide serializer, and configuration.
package driven
