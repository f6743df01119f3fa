package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store appends experiment results to a SQLite database, one run per
// RecordGames call, so tallies add up across runs and sweeps.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			experiment TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS games (
			run INTEGER NOT NULL REFERENCES runs(id),
			experiment TEXT NOT NULL,
			id INTEGER NOT NULL,
			matchup TEXT NOT NULL,
			agent1 INTEGER NOT NULL,
			agent2 INTEGER NOT NULL,
			starting_player TEXT NOT NULL,
			winner TEXT NOT NULL,
			seat INTEGER NOT NULL,
			start_time TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			total_moves INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			PRIMARY KEY (run, id)
		);`,
		`CREATE INDEX IF NOT EXISTS games_by_matchup ON games(experiment, matchup);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SeatResult pairs a game record with the matchup seat that won it, -1 for none.
type SeatResult struct {
	GameRecord
	Seat int
}

// RecordGames inserts the results of one experiment run in a single
// transaction. Every call is a new run, so earlier runs are kept and the
// returned run id tells them apart.
func (s *Store) RecordGames(ctx context.Context, experiment string, results []SeatResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `INSERT INTO runs (experiment, recorded_at) VALUES (?, ?)`,
		experiment, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	run, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO games
		(run, experiment, id, matchup, agent1, agent2, starting_player, winner, seat, start_time, duration_ms, total_moves, turns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		_, err = stmt.ExecContext(ctx,
			run,
			experiment,
			r.ID,
			r.Matchup,
			r.Agent1,
			r.Agent2,
			r.StartingPlayer.String(),
			r.Winner.String(),
			r.Seat,
			r.StartTime.UTC().Format(time.RFC3339Nano),
			r.Duration.Milliseconds(),
			r.TotalMoves,
			r.Turns,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert game %d: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return run, nil
}

// Tallies sums the stored outcomes of every run of an experiment by matchup label.
func (s *Store) Tallies(ctx context.Context, experiment string) (map[string]Tally, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT matchup, seat, COUNT(*) FROM games WHERE experiment = ? GROUP BY matchup, seat`, experiment)
	if err != nil {
		return nil, fmt.Errorf("failed to query tallies: %w", err)
	}
	defer rows.Close()

	tallies := make(map[string]Tally)
	for rows.Next() {
		var matchup string
		var seat, count int
		if err := rows.Scan(&matchup, &seat, &count); err != nil {
			return nil, err
		}
		t := tallies[matchup]
		if seat == 0 || seat == 1 {
			t.Wins[seat] += count
		} else {
			t.NoWinner += count
		}
		tallies[matchup] = t
	}
	return tallies, rows.Err()
}
