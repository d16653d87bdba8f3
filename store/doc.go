// Package store provides persistent krypt.HistoryStore implementations.
//
// FileStore keeps the log in a single JSON file written atomically with
// owner-only permissions. SQLiteStore keeps it in a SQLite database through
// gorm. Neither stores keys; history entries only carry a short key hint.
package store
