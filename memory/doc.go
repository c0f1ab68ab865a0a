// Package memory contains concrete core.KVStore implementations used by the
// remember and recall capabilities. Depend on core.KVStore in your code and
// select an implementation (the JSON file store, or the in-memory store for
// tests) at wiring time.
package memory
