package db

import "database/sql"

// HasTable checks information_schema for a table in the current database.
func HasTable(db *sql.DB, table string) bool {
	if db == nil {
		return false
	}
	var name string
	err := db.QueryRow(`
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_name = ?
		LIMIT 1`, table).Scan(&name)
	return err == nil
}

// HasColumn checks information_schema for a column on a table.
func HasColumn(db *sql.DB, table, column string) bool {
	if db == nil {
		return false
	}
	var name string
	err := db.QueryRow(`
		SELECT column_name FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?
		LIMIT 1`, table, column).Scan(&name)
	return err == nil
}
