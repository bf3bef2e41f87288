// Package postgres provides PostgreSQL implementations of the cart store and
// the token revocation list, reached through database/sql with the pgx
// driver. Schema migrations are embedded and applied with goose.
package postgres
