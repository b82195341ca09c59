// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, plus the task
// store used by the background runner. It handles query execution, data
// mapping between domain entities and database records, and translation of
// driver errors into the store package's sentinel errors.
package postgres
