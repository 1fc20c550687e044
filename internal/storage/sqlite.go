package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"

	"evoagg/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the latest snapshot of each table as plain rows so the
// tables can be queried with any sqlite client. NaN values are stored as NULL.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveFitnessTable(ctx context.Context, table model.FitnessTable) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fitness_rows`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fitness_rows (seq, experiment_name, num_obj, iter_path, combo, rep, network_size, objective, mse)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range table.Rows {
		if _, err := stmt.ExecContext(ctx, i, r.ExperimentName, r.NumObj, r.IterPath, r.Combo, r.Rep,
			r.NetworkSize, r.Objective, nullFloat(r.MSE)); err != nil {
			return fmt.Errorf("insert fitness row %d: %w", i, err)
		}
	}
	if err := saveSnapshotInfo(ctx, tx, table.Info, len(table.Rows)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetFitnessTable(ctx context.Context) (model.FitnessTable, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.FitnessTable{}, false, err
	}

	info, ok, err := getSnapshotInfo(ctx, db, model.TableFitness)
	if err != nil || !ok {
		return model.FitnessTable{}, ok, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT experiment_name, num_obj, iter_path, combo, rep, network_size, objective, mse
		FROM fitness_rows
		ORDER BY seq
	`)
	if err != nil {
		return model.FitnessTable{}, false, err
	}
	defer rows.Close()

	table := model.FitnessTable{Info: info}
	for rows.Next() {
		var (
			r   model.FitnessRow
			mse sql.NullFloat64
		)
		if err := rows.Scan(&r.ExperimentName, &r.NumObj, &r.IterPath, &r.Combo, &r.Rep,
			&r.NetworkSize, &r.Objective, &mse); err != nil {
			return model.FitnessTable{}, false, err
		}
		r.MSE = fromNullFloat(mse)
		table.Rows = append(table.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return model.FitnessTable{}, false, err
	}
	return table, true, nil
}

func (s *SQLiteStore) SaveEntropyTable(ctx context.Context, table model.EntropyTable) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entropy_rows`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entropy_rows (
			seq, experiment_name, num_obj, iter_path, combo, rep, network_size, objective,
			under_selection, mse, entropy, num_unique, pop_size
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range table.Rows {
		if _, err := stmt.ExecContext(ctx, i, r.ExperimentName, r.NumObj, r.IterPath, r.Combo, r.Rep,
			r.NetworkSize, r.Objective, r.UnderSelection, nullFloat(r.MSE), nullFloat(r.Entropy),
			r.NumUnique, r.PopSize); err != nil {
			return fmt.Errorf("insert entropy row %d: %w", i, err)
		}
	}
	if err := saveSnapshotInfo(ctx, tx, table.Info, len(table.Rows)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetEntropyTable(ctx context.Context) (model.EntropyTable, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.EntropyTable{}, false, err
	}

	info, ok, err := getSnapshotInfo(ctx, db, model.TableEntropy)
	if err != nil || !ok {
		return model.EntropyTable{}, ok, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT experiment_name, num_obj, iter_path, combo, rep, network_size, objective,
			under_selection, mse, entropy, num_unique, pop_size
		FROM entropy_rows
		ORDER BY seq
	`)
	if err != nil {
		return model.EntropyTable{}, false, err
	}
	defer rows.Close()

	table := model.EntropyTable{Info: info}
	for rows.Next() {
		var (
			r            model.EntropyRow
			mse, entropy sql.NullFloat64
		)
		if err := rows.Scan(&r.ExperimentName, &r.NumObj, &r.IterPath, &r.Combo, &r.Rep,
			&r.NetworkSize, &r.Objective, &r.UnderSelection, &mse, &entropy,
			&r.NumUnique, &r.PopSize); err != nil {
			return model.EntropyTable{}, false, err
		}
		r.MSE = fromNullFloat(mse)
		r.Entropy = fromNullFloat(entropy)
		table.Rows = append(table.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return model.EntropyTable{}, false, err
	}
	return table, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func saveSnapshotInfo(ctx context.Context, tx *sql.Tx, info model.SnapshotInfo, rows int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (table_name, id, schema_version, codec_version, source, created_at_utc, row_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(table_name) DO UPDATE SET
			id = excluded.id,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			source = excluded.source,
			created_at_utc = excluded.created_at_utc,
			row_count = excluded.row_count
	`, info.Table, info.ID, info.SchemaVersion, info.CodecVersion, info.Source, info.CreatedAtUTC, rows)
	return err
}

func getSnapshotInfo(ctx context.Context, db *sql.DB, table string) (model.SnapshotInfo, bool, error) {
	var info model.SnapshotInfo
	err := db.QueryRowContext(ctx, `
		SELECT table_name, id, schema_version, codec_version, source, created_at_utc, row_count
		FROM snapshots WHERE table_name = ?
	`, table).Scan(&info.Table, &info.ID, &info.SchemaVersion, &info.CodecVersion, &info.Source,
		&info.CreatedAtUTC, &info.Rows)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SnapshotInfo{}, false, nil
		}
		return model.SnapshotInfo{}, false, err
	}
	if err := checkVersion(info.VersionedRecord); err != nil {
		return model.SnapshotInfo{}, false, fmt.Errorf("%s snapshot %s: %w", table, info.ID, err)
	}
	return info, true, nil
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			table_name TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			source TEXT NOT NULL,
			created_at_utc TEXT NOT NULL,
			row_count INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS fitness_rows (
			seq INTEGER PRIMARY KEY,
			experiment_name TEXT NOT NULL,
			num_obj TEXT NOT NULL,
			iter_path TEXT NOT NULL,
			combo TEXT NOT NULL,
			rep TEXT NOT NULL,
			network_size INTEGER NOT NULL,
			objective TEXT NOT NULL,
			mse REAL
		);
		CREATE TABLE IF NOT EXISTS entropy_rows (
			seq INTEGER PRIMARY KEY,
			experiment_name TEXT NOT NULL,
			num_obj TEXT NOT NULL,
			iter_path TEXT NOT NULL,
			combo TEXT NOT NULL,
			rep TEXT NOT NULL,
			network_size INTEGER NOT NULL,
			objective TEXT NOT NULL,
			under_selection INTEGER NOT NULL,
			mse REAL,
			entropy REAL,
			num_unique INTEGER NOT NULL,
			pop_size INTEGER NOT NULL
		);
	`)
	return err
}
