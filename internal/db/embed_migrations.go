package db

import "embed"

// MigrationFS embeds the SQL migrations for pending_signups, users and audit_logs.
// Applied by internal/db/migrate (cmd/migrate and the integration test containers).
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
