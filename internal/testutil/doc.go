// Package testutil contains helper builders used across tests to reduce
// boilerplate when scripting model replies. Not intended for production usage.
package testutil
