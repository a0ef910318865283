// SPDX-License-Identifier: MIT
// Package store - SQLite persistence of runs.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/chronolath/mcmc"
	"github.com/katalvlaran/chronolath/model"
	"github.com/katalvlaran/chronolath/variable"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	status      TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	chains_json TEXT NOT NULL,
	study       BLOB
);

CREATE TABLE IF NOT EXISTS variables (
	run_id TEXT NOT NULL,
	name   TEXT NOT NULL,
	mh     INTEGER NOT NULL,
	data   BLOB NOT NULL,
	PRIMARY KEY (run_id, name),
	FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS results (
	run_id  TEXT NOT NULL,
	name    TEXT NOT NULL,
	mean    REAL,
	std     REAL,
	mode    REAL,
	cred_lo REAL,
	cred_hi REAL,
	rate    REAL,
	PRIMARY KEY (run_id, name),
	FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);
`

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a run archive backed by one SQLite database.
type Store struct {
	db *sql.DB
}

// Run describes a stored run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Status    string
	Seed      int64
	Chains    []mcmc.ChainSpec
}

// Result is the stored summary of one variable. Non-finite values and an
// empty credibility interval are stored as NULL and read back as NaN. Rate is the global acceptance rate
// in percent, nil for variables without MH moves.
type Result struct {
	Name           string
	Mean, Std      float64
	Mode           float64
	CredLo, CredHi float64
	Rate           *float64
}

// Open opens (or creates) the database at path and migrates it.
// ":memory:" gives a private in-memory archive.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	// one connection keeps ":memory:" a single database
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: migrate: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// named pairs every trace holder of m with its storage name, e.g.
// "event/e1/theta" or "date/d1/sigma".
type named struct {
	name string
	v    *variable.Variable
	mh   *variable.MHVariable
}

func variablesOf(m *model.Model) []named {
	var out []named
	for i := range m.Events {
		e := &m.Events[i]
		nv := named{name: "event/" + e.Name + "/theta", v: &e.Theta.Variable}
		// bound thetas never propose, so they carry no acceptance record
		if e.Type == model.EventDefault {
			nv.mh = &e.Theta
		}
		out = append(out, nv)
	}
	for i := range m.Dates {
		d := &m.Dates[i]
		out = append(out,
			named{name: "date/" + d.Name + "/ti", v: &d.Ti.Variable, mh: &d.Ti},
			named{name: "date/" + d.Name + "/sigma", v: &d.Sigma.Variable, mh: &d.Sigma},
			named{name: "date/" + d.Name + "/wiggle", v: &d.Wiggle})
	}
	for i := range m.Phases {
		p := &m.Phases[i]
		out = append(out,
			named{name: "phase/" + p.Name + "/alpha", v: &p.Alpha},
			named{name: "phase/" + p.Name + "/beta", v: &p.Beta},
			named{name: "phase/" + p.Name + "/duration", v: &p.Duration})
	}
	return out
}

// SaveRun stores the traces and results of m after a run described by rep,
// along with the raw study file (may be nil). Returns the new run id.
func (s *Store) SaveRun(ctx context.Context, m *model.Model, rep mcmc.Report, seed int64, study []byte) (string, error) {
	id := uuid.New().String()
	chains, err := json.Marshal(rep.Chains)
	if err != nil {
		return "", fmt.Errorf("store: marshal chains: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, status, seed, chains_json, study) VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(timeLayout), rep.Status.String(), seed, string(chains), study)
	if err != nil {
		return "", fmt.Errorf("store: insert run: %w", err)
	}

	for _, nv := range variablesOf(m) {
		var (
			data []byte
			rate any
			mh   int
		)
		if nv.mh != nil {
			data, err = nv.mh.MarshalBinary()
			rate, mh = nv.mh.GlobalRate, 1
		} else {
			data, err = nv.v.MarshalBinary()
		}
		if err != nil {
			return "", fmt.Errorf("store: encode %s: %w", nv.name, err)
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO variables (run_id, name, mh, data) VALUES (?, ?, ?, ?)`,
			id, nv.name, mh, data); err != nil {
			return "", fmt.Errorf("store: insert %s: %w", nv.name, err)
		}
		v := nv.v
		var credLo, credHi any
		if !v.Credibility.IsEmpty() {
			credLo, credHi = nullable(v.Credibility.Lo), nullable(v.Credibility.Hi)
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO results (run_id, name, mean, std, mode, cred_lo, cred_hi, rate) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, nv.name, nullable(v.Stats.Mean), nullable(v.Stats.Std), nullable(v.Stats.Mode),
			credLo, credHi, rate); err != nil {
			return "", fmt.Errorf("store: insert result %s: %w", nv.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// ListRuns returns every run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, created_at, status, seed, chains_json FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun returns one run. ErrNotFound if it does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, created_at, status, seed, chains_json FROM runs WHERE run_id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("store: run %s: %w", id, ErrNotFound)
	}
	return r, err
}

type scanner interface{ Scan(dest ...any) error }

func scanRun(sc scanner) (Run, error) {
	var (
		r       Run
		created string
		chains  string
	)
	if err := sc.Scan(&r.ID, &created, &r.Status, &r.Seed, &chains); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("store: run %s created_at: %w", r.ID, err)
	}
	r.CreatedAt = t
	if err := json.Unmarshal([]byte(chains), &r.Chains); err != nil {
		return Run{}, fmt.Errorf("store: run %s chains: %w", r.ID, err)
	}
	return r, nil
}

// Study returns the study file stored with a run.
func (s *Store) Study(ctx context.Context, id string) ([]byte, error) {
	var study []byte
	err := s.db.QueryRowContext(ctx, `SELECT study FROM runs WHERE run_id = ?`, id).Scan(&study)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: run %s: %w", id, ErrNotFound)
	}
	return study, err
}

// LoadVariable decodes a stored variable. Plain variables come back wrapped
// in an MHVariable with empty acceptance records.
func (s *Store) LoadVariable(ctx context.Context, id, name string) (*variable.MHVariable, error) {
	var (
		mh   int
		data []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT mh, data FROM variables WHERE run_id = ? AND name = ?`, id, name).Scan(&mh, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: %s/%s: %w", id, name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load %s: %w", name, err)
	}
	out := &variable.MHVariable{}
	if mh == 1 {
		err = out.UnmarshalBinary(data)
	} else {
		err = out.Variable.UnmarshalBinary(data)
	}
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", name, err)
	}
	return out, nil
}

// Results returns the result rows of a run ordered by name.
func (s *Store) Results(ctx context.Context, id string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, mean, std, mode, cred_lo, cred_hi, rate FROM results WHERE run_id = ? ORDER BY name`, id)
	if err != nil {
		return nil, fmt.Errorf("store: results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			r                       Result
			mean, std, mode, lo, hi sql.NullFloat64
			rate                    sql.NullFloat64
		)
		if err := rows.Scan(&r.Name, &mean, &std, &mode, &lo, &hi, &rate); err != nil {
			return nil, err
		}
		r.Mean, r.Std, r.Mode = orNaN(mean), orNaN(std), orNaN(mode)
		r.CredLo, r.CredHi = orNaN(lo), orNaN(hi)
		if rate.Valid {
			x := rate.Float64
			r.Rate = &x
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and everything stored with it.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: run %s: %w", id, ErrNotFound)
	}
	return nil
}

func nullable(x float64) any {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return x
}

func orNaN(x sql.NullFloat64) float64 {
	if !x.Valid {
		return math.NaN()
	}
	return x.Float64
}
