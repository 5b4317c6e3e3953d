package telemetry

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/milk9111/tension/director"
)

const schema = `
CREATE TABLE IF NOT EXISTS samples (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	at          REAL NOT NULL,
	team_signal REAL NOT NULL,
	phase       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS phase_changes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	at         REAL NOT NULL,
	from_phase TEXT NOT NULL,
	to_phase   TEXT NOT NULL,
	forced     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS spawns (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	at       REAL NOT NULL,
	tier     TEXT NOT NULL,
	rate     REAL NOT NULL,
	entities TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS warnings (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	at      REAL NOT NULL,
	message TEXT NOT NULL
);
`

// SQLiteSink persists director events into a sqlite database so balancing
// runs can be queried after the fact.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) a sqlite sink at dsn. Use ":memory:" for
// throwaway runs.
func OpenSQLite(dsn string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", dsn, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("telemetry: migrate %s: %w", dsn, err)
	}
	return &SQLiteSink{db: db}, nil
}

// Record inserts one row for evt into the matching table.
func (s *SQLiteSink) Record(evt director.Event) error {
	if s == nil || s.db == nil {
		return nil
	}
	var err error
	switch data := evt.Data.(type) {
	case director.TelemetrySample:
		_, err = s.db.Exec(
			`INSERT INTO samples (at, team_signal, phase) VALUES (?, ?, ?)`,
			data.Time, data.TeamSignal, string(data.Phase),
		)
	case director.PhaseChangeEvent:
		forced := 0
		if data.Forced {
			forced = 1
		}
		_, err = s.db.Exec(
			`INSERT INTO phase_changes (at, from_phase, to_phase, forced) VALUES (?, ?, ?, ?)`,
			data.Time, string(data.From), string(data.To), forced,
		)
	case director.SpawnCommand:
		_, err = s.db.Exec(
			`INSERT INTO spawns (at, tier, rate, entities) VALUES (?, ?, ?, ?)`,
			data.Time, string(data.Tier), data.Rate, strings.Join(data.Entities, ","),
		)
	case *director.QualityGateWarning:
		_, err = s.db.Exec(
			`INSERT INTO warnings (at, message) VALUES (?, ?)`,
			data.Time, data.Error(),
		)
	}
	if err != nil {
		return fmt.Errorf("telemetry: record %s: %w", evt.Kind, err)
	}
	return nil
}

// SampleCount reports the number of persisted samples.
func (s *SQLiteSink) SampleCount() (int, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&n); err != nil {
		return 0, fmt.Errorf("telemetry: count samples: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
