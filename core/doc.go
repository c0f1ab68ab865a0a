// Package core provides the foundational domain types shared by every smartpup
// package:
//
//   - Content / Part (role based conversation messages and capability calls)
//   - Conversation (append-only message history with tool turn invariants)
//   - PupError (the cognitive / technical failure taxonomy)
//   - ModelLimiter (iteration budget of a single run)
//   - ToolContext (scoped execution surface handed to capabilities)
//   - KVStore (key-value persistence contract used by memory capabilities)
//
// The package deliberately keeps orchestration, transport and persistence out of
// scope, exposing small types and interfaces that higher layers compose.
package core
