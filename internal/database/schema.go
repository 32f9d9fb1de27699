package database

import _ "embed"

// Schema is the current database schema, extracted from the migrations
// by the generator in tools/. Tests apply it directly instead of
// running the full migration chain.
//
//go:embed schema.sql
var Schema string
