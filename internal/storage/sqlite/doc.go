// Package sqlite persists converted tracks and conversion runs in SQLite.
//
// The schema is owned by the embedded migrations under migrations/ and is
// applied by Open. All SQL for the converter output lives here so that the
// conversion packages stay free of storage code.
package sqlite
