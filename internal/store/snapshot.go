package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/levelcast/internal/record"
	"github.com/abhisek/levelcast/internal/source"
)

// ErrNoSnapshot is returned when the cache has never been filled.
var ErrNoSnapshot = errors.New("store: no cached snapshot; run sync first")

var _ source.Source = (*Store)(nil)

// Save writes snap as the newest cached snapshot.
func (s *Store) Save(ctx context.Context, snap *source.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (collected_at, current_level) VALUES (?, ?)`,
		formatTime(snap.CollectedAt), snap.CurrentLevel)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("snapshot id: %w", err)
	}

	for _, a := range snap.Attempts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO level_attempts (snapshot_id, level, started_at, passed_at, abandoned_at) VALUES (?, ?, ?, ?, ?)`,
			id, a.Level, formatTime(a.StartedAt), nullTime(a.PassedAt), nullTime(a.AbandonedAt))
		if err != nil {
			return fmt.Errorf("insert level attempt: %w", err)
		}
	}
	for _, it := range snap.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO review_items (snapshot_id, item_id, item_type, level, stage, started_at, available_at, mastered_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, it.ID, string(it.Type), it.Level, it.Stage, nullTime(it.StartedAt), nullTime(it.AvailableAt), nullTime(it.MasteredAt))
		if err != nil {
			return fmt.Errorf("insert review item: %w", err)
		}
	}
	for _, o := range snap.Outcomes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO review_outcomes (snapshot_id, item_id, meaning_correct, meaning_incorrect, reading_correct, reading_incorrect) VALUES (?, ?, ?, ?, ?, ?)`,
			id, o.ItemID, o.MeaningCorrect, o.MeaningIncorrect, o.ReadingCorrect, o.ReadingIncorrect)
		if err != nil {
			return fmt.Errorf("insert review outcome: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Latest loads the newest cached snapshot, or ErrNoSnapshot.
func (s *Store) Latest(ctx context.Context) (*source.Snapshot, error) {
	var (
		id          int64
		collectedAt string
		snap        source.Snapshot
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, collected_at, current_level FROM snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&id, &collectedAt, &snap.CurrentLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if snap.CollectedAt, err = parseTime(collectedAt); err != nil {
		return nil, err
	}

	if snap.Attempts, err = s.attempts(ctx, id); err != nil {
		return nil, err
	}
	if snap.Items, err = s.items(ctx, id); err != nil {
		return nil, err
	}
	if snap.Outcomes, err = s.outcomes(ctx, id); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Prune deletes all but the keep most recent snapshots.
func (s *Store) Prune(ctx context.Context, keep int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (s *Store) attempts(ctx context.Context, id int64) ([]record.LevelAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level, started_at, passed_at, abandoned_at FROM level_attempts WHERE snapshot_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("query level attempts: %w", err)
	}
	defer rows.Close()

	var out []record.LevelAttempt
	for rows.Next() {
		var (
			a                 record.LevelAttempt
			started           string
			passed, abandoned sql.NullString
		)
		if err := rows.Scan(&a.Level, &started, &passed, &abandoned); err != nil {
			return nil, fmt.Errorf("scan level attempt: %w", err)
		}
		if a.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if a.PassedAt, err = parseNullTime(passed); err != nil {
			return nil, err
		}
		if a.AbandonedAt, err = parseNullTime(abandoned); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) items(ctx context.Context, id int64) ([]record.ItemState, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, item_type, level, stage, started_at, available_at, mastered_at FROM review_items WHERE snapshot_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("query review items: %w", err)
	}
	defer rows.Close()

	var out []record.ItemState
	for rows.Next() {
		var (
			it                          record.ItemState
			typ                         string
			started, available, mastery sql.NullString
		)
		if err := rows.Scan(&it.ID, &typ, &it.Level, &it.Stage, &started, &available, &mastery); err != nil {
			return nil, fmt.Errorf("scan review item: %w", err)
		}
		it.Type = record.ItemType(typ)
		if it.StartedAt, err = parseNullTime(started); err != nil {
			return nil, err
		}
		if it.AvailableAt, err = parseNullTime(available); err != nil {
			return nil, err
		}
		if it.MasteredAt, err = parseNullTime(mastery); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) outcomes(ctx context.Context, id int64) ([]record.OutcomeCounters, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, meaning_correct, meaning_incorrect, reading_correct, reading_incorrect FROM review_outcomes WHERE snapshot_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("query review outcomes: %w", err)
	}
	defer rows.Close()

	var out []record.OutcomeCounters
	for rows.Next() {
		var o record.OutcomeCounters
		if err := rows.Scan(&o.ItemID, &o.MeaningCorrect, &o.MeaningIncorrect, &o.ReadingCorrect, &o.ReadingIncorrect); err != nil {
			return nil, fmt.Errorf("scan review outcome: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CurrentLevel, LevelAttempts, ReviewItems and ReviewOutcomes serve the
// latest snapshot as a source.Source.

func (s *Store) CurrentLevel(ctx context.Context) (int, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return 0, err
	}
	return snap.CurrentLevel, nil
}

func (s *Store) LevelAttempts(ctx context.Context) ([]record.LevelAttempt, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Attempts, nil
}

func (s *Store) ReviewItems(ctx context.Context, levels []int) ([]record.ItemState, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return source.Static{Snap: snap}.ReviewItems(ctx, levels)
}

func (s *Store) ReviewOutcomes(ctx context.Context, levels []int) ([]record.OutcomeCounters, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Outcomes, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
