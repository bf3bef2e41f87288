// Package store declares the persistence interfaces used by the services:
// carts keyed by subject and the product catalog. Implementations live in
// internal/platform/memory and internal/platform/postgres.
package store
