package migrations

import "embed"

// PostgresFS holds the matched-trade and latency-record table migrations.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the performance-report table migrations.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
