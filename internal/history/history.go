// Package history records folder open events in a local SQLite database
// so recently used projects can be listed.
package history

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rotisserie/eris"
)

// OpenEvent is one recorded folder launch
type OpenEvent struct {
	ID         int       `json:"id"`
	FolderPath string    `json:"folder_path"`
	FolderName string    `json:"folder_name"`
	App        string    `json:"app"` // Command the folder was opened with
	OpenedAt   time.Time `json:"opened_at"`
}

// InitDB initializes a new database connection
func InitDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open database: %s", dbPath)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to ping database")
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to run migrations")
	}

	return db, nil
}

// RecordOpen inserts an open event
func RecordOpen(db *sql.DB, event *OpenEvent) error {
	result, err := db.Exec(
		"INSERT INTO open_events (folder_path, folder_name, app, opened_at) VALUES (?, ?, ?, ?)",
		event.FolderPath, event.FolderName, event.App, event.OpenedAt,
	)
	if err != nil {
		return eris.Wrap(err, "failed to insert open event")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "failed to get last insert id")
	}

	event.ID = int(id)
	return nil
}

// RecentOpens returns the most recent open events, newest first, at most
// one per folder path
func RecentOpens(db *sql.DB, limit int) ([]*OpenEvent, error) {
	rows, err := db.Query(`
		SELECT id, folder_path, folder_name, app, opened_at
		FROM open_events
		WHERE id IN (
			SELECT MAX(id) FROM open_events GROUP BY folder_path
		)
		ORDER BY opened_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query open events")
	}
	defer rows.Close()

	var events []*OpenEvent
	for rows.Next() {
		event := &OpenEvent{}
		if err := rows.Scan(&event.ID, &event.FolderPath, &event.FolderName, &event.App, &event.OpenedAt); err != nil {
			return nil, eris.Wrap(err, "failed to scan open event")
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "failed to iterate open events")
	}

	return events, nil
}

// PruneBefore deletes events older than the cutoff
func PruneBefore(db *sql.DB, cutoff time.Time) (int64, error) {
	result, err := db.Exec("DELETE FROM open_events WHERE opened_at < ?", cutoff)
	if err != nil {
		return 0, eris.Wrap(err, "failed to prune open events")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "failed to get affected rows")
	}
	return n, nil
}
