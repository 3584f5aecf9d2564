// Package migrations embeds the SQL migration files for the license tables so
// they can be applied with the goose programmatic API in tests and when
// bootstrapping a Postgres-backed store.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// The statements are portable between SQLite and Postgres; pass FS to
// goose.NewProvider with the matching dialect.
//
//go:embed *.sql
var FS embed.FS
