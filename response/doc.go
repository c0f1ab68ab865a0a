// Package response turns raw model replies into run outcomes.
//
// Classify decides what a reply means (bail, answer, capability request or
// nothing). Interpret extracts the JSON object from an answer, cleans it and
// validates it against the configured response schema.
package response
