// Package migrations embeds the goose SQL migrations for the authority's
// relational store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
