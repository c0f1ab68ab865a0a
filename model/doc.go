// Package model defines the provider-agnostic boundary between the pup
// orchestrator and a language model completion endpoint.
//
// Core goals:
//   - One request, one reply: Generate issues exactly one completion call
//   - Normalize capability call representation (ToolDefinition, core.FunctionCall)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate deterministic tests (ScriptedModel)
//
// Providers (model/openai, model/anthropic) implement the Model interface so
// the orchestrator remains decoupled from vendor SDKs.
package model
