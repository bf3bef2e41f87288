// Package memory provides process-local implementations of the store
// interfaces. Data lives for the lifetime of the process.
package memory
