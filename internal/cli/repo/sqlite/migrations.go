package sqlite

import (
	_ "embed"
)

// Схема локального key/value хранилища (SQLite).
//
//go:embed migrations/001_init.sql
var initDDL string

func initialDDL() string { return initDDL }
