package store

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/registration-form/internal/model"
)

// table is the name of the records table. It matches the table of existing data.db files.
const table = "users"

func init() {
	// modernc.org/sqlite registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// dialect holds the statements that differ between the supported database engines.
type dialect struct {
	name      string
	idColumn  string
	textType  string
	wipeTable []string
}

var dialects = map[string]dialect{
	"sqlite": {
		name:     "sqlite",
		idColumn: "`id` INTEGER PRIMARY KEY AUTOINCREMENT",
		textType: "TEXT",
		wipeTable: []string{
			"DELETE FROM " + table,
			"DELETE FROM sqlite_sequence WHERE name = '" + table + "'",
		},
	},
	"mysql": {
		name:     "mysql",
		idColumn: "`id` BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY",
		textType: "VARCHAR(255)",
		// TRUNCATE also resets the AUTO_INCREMENT counter.
		wipeTable: []string{
			"TRUNCATE TABLE " + table,
		},
	},
}

func lookupDialect(driverName string) (dialect, error) {
	d, ok := dialects[driverName]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported database driver %q", driverName)
	}
	return d, nil
}

// createTable returns the CREATE TABLE statement for the columns of the variant. Columns are quoted
// because current_date is a reserved word in both engines.
func (d dialect) createTable(v model.Variant) string {
	defs := []string{d.idColumn}
	for _, column := range v.Columns() {
		def := "`" + column + "` " + d.textType
		if column == "first_name" || column == "phone_number" {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	return "CREATE TABLE IF NOT EXISTS " + table + " (\n\t" + strings.Join(defs, ",\n\t") + "\n)"
}

// selectColumns returns the select list of the variant including the id. NULL values of imported
// rows are read as empty strings.
func selectColumns(v model.Variant) string {
	quoted := []string{"`id`"}
	for _, column := range v.Columns() {
		quoted = append(quoted, "COALESCE(`"+column+"`, '') AS `"+column+"`")
	}
	return strings.Join(quoted, ", ")
}

// insertStatement returns the named INSERT statement for the variant.
func insertStatement(v model.Variant) string {
	var columns, params []string
	for _, column := range v.Columns() {
		columns = append(columns, "`"+column+"`")
		params = append(params, ":"+column)
	}
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(params, ", ") + ")"
}
