package postgres

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// recordColumns is the column order used for staging loads. incident_id is
// the primary key and must stay first.
var recordColumns = []string{
	"incident_id",
	"full_date",
	"year",
	"month",
	"month_name",
	"day",
	"day_name",
	"hour",
	"minute",
	"severity",
	"service_impact",
	"incident_description",
	"resolution_steps",
	"root_cause",
}

func createTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	incident_id          text PRIMARY KEY,
	full_date            text NOT NULL,
	year                 integer NOT NULL,
	month                integer NOT NULL,
	month_name           text NOT NULL,
	day                  integer NOT NULL,
	day_name             text NOT NULL,
	hour                 integer NOT NULL,
	minute               integer NOT NULL,
	severity             text,
	service_impact       text,
	incident_description text NOT NULL,
	resolution_steps     text,
	root_cause           text
)`, pgx.Identifier{table}.Sanitize())
}

func createStagingSQL(staging, table string) string {
	return fmt.Sprintf("CREATE TEMPORARY TABLE %s (LIKE %s INCLUDING DEFAULTS)",
		pgx.Identifier{staging}.Sanitize(), pgx.Identifier{table}.Sanitize())
}

func dropStagingSQL(staging string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{staging}.Sanitize())
}

func insertFromStagingSQL(table, staging string) string {
	return fmt.Sprintf("INSERT INTO %s SELECT * FROM %s",
		pgx.Identifier{table}.Sanitize(), pgx.Identifier{staging}.Sanitize())
}

// mergeFromStagingSQL overwrites every non-key column of matched rows.
func mergeFromStagingSQL(table, staging string) string {
	assignments := make([]string, 0, len(recordColumns)-1)
	for _, col := range recordColumns[1:] {
		quoted := pgx.Identifier{col}.Sanitize()
		assignments = append(assignments, fmt.Sprintf("%s = source.%s", quoted, quoted))
	}

	return fmt.Sprintf(`MERGE INTO %s AS target
USING %s AS source
ON target.incident_id = source.incident_id
WHEN MATCHED THEN
UPDATE SET %s`,
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{staging}.Sanitize(),
		strings.Join(assignments, ",\n	"))
}

func selectIDsSQL(table string) string {
	return fmt.Sprintf("SELECT incident_id FROM %s", pgx.Identifier{table}.Sanitize())
}
