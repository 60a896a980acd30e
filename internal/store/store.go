package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"photodup/internal/config"
	"photodup/internal/scanner"
	"photodup/internal/services"
)

// ErrNoScans indicates the history database holds no completed scans yet.
var ErrNoScans = errors.New("no scans recorded")

// Store manages scan-history persistence backed by SQLite.
type Store struct {
	db       *sql.DB
	path     string
	maxScans int
}

// Open initializes or connects to the history database and applies the
// schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, maxScans: cfg.Store.MaxScans}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk location of the history database.
func (s *Store) Path() string {
	return s.path
}

// SaveScan persists a completed scan with its groups and members, then
// prunes history past the retention cap. The whole write is one
// transaction.
func (s *Store) SaveScan(ctx context.Context, result *scanner.Result) error {
	if result == nil {
		return errors.New("nil scan result")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO scans (scan_uuid, tier, asset_count, failed_fetches, started_at, finished_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		result.ScanID,
		string(result.Tier),
		result.AssetCount,
		result.FailedFetches,
		result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	scanRow, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("scan insert id: %w", err)
	}

	for _, group := range result.Groups {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO duplicate_groups (scan_id, digest, member_count) VALUES (?, ?, ?)`,
			scanRow, group.ID(), len(group.Members),
		)
		if err != nil {
			return fmt.Errorf("insert group %s: %w", group.ID(), err)
		}
		groupRow, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("group insert id: %w", err)
		}
		for position, member := range group.Members {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO group_members (group_id, position, asset_id, created_at) VALUES (?, ?, ?, ?)`,
				groupRow, position, member.ID, member.CreatedAt.UTC().Format(time.RFC3339Nano),
			); err != nil {
				return fmt.Errorf("insert member %s: %w", member.ID, err)
			}
		}
	}

	if s.maxScans > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM scans WHERE id NOT IN (SELECT id FROM scans ORDER BY id DESC LIMIT ?)`,
			s.maxScans,
		); err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// LatestScan returns the most recent persisted scan with its groups, or
// ErrNoScans when the history is empty.
func (s *Store) LatestScan(ctx context.Context) (*Scan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, scan_uuid, tier, asset_count, failed_fetches, started_at, finished_at
         FROM scans ORDER BY id DESC LIMIT 1`)

	var scan Scan
	var started, finished string
	err := row.Scan(&scan.ID, &scan.UUID, &scan.Tier, &scan.AssetCount, &scan.FailedFetches, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoScans
	}
	if err != nil {
		return nil, fmt.Errorf("read latest scan: %w", err)
	}
	if scan.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if scan.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}

	if scan.Groups, err = s.loadGroups(ctx, scan.ID); err != nil {
		return nil, err
	}
	return &scan, nil
}

// ScanCount returns the number of retained scans.
func (s *Store) ScanCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM scans").Scan(&count); err != nil {
		return 0, fmt.Errorf("count scans: %w", err)
	}
	return count, nil
}

// FindGroup resolves a group in the latest scan by digest hex, accepting an
// unambiguous prefix of at least 8 characters.
func (s *Store) FindGroup(ctx context.Context, digestPrefix string) (*Group, error) {
	prefix := strings.ToLower(strings.TrimSpace(digestPrefix))
	if len(prefix) < 8 {
		return nil, services.Wrap(services.ErrValidation, "store", "find group",
			fmt.Sprintf("group id %q too short, need at least 8 hex characters", digestPrefix), nil)
	}

	latest, err := s.LatestScan(ctx)
	if err != nil {
		return nil, err
	}

	var match *Group
	for i := range latest.Groups {
		if strings.HasPrefix(latest.Groups[i].Digest, prefix) {
			if match != nil {
				return nil, services.Wrap(services.ErrValidation, "store", "find group",
					fmt.Sprintf("group id %q is ambiguous", digestPrefix), nil)
			}
			match = &latest.Groups[i]
		}
	}
	if match == nil {
		return nil, services.Wrap(services.ErrNotFound, "store", "find group",
			fmt.Sprintf("no group %q in the latest scan", digestPrefix), nil)
	}
	return match, nil
}

func (s *Store) loadGroups(ctx context.Context, scanID int64) ([]Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, digest FROM duplicate_groups WHERE scan_id = ? ORDER BY id`, scanID)
	if err != nil {
		return nil, fmt.Errorf("read groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	var groupIDs []int64
	for rows.Next() {
		var id int64
		var group Group
		if err := rows.Scan(&id, &group.Digest); err != nil {
			return nil, fmt.Errorf("scan group row: %w", err)
		}
		groups = append(groups, group)
		groupIDs = append(groupIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	for i, groupID := range groupIDs {
		members, err := s.loadMembers(ctx, groupID)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}
	return groups, nil
}

func (s *Store) loadMembers(ctx context.Context, groupID int64) ([]Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT asset_id, created_at FROM group_members WHERE group_id = ? ORDER BY position`, groupID)
	if err != nil {
		return nil, fmt.Errorf("read members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var member Member
		var created string
		if err := rows.Scan(&member.AssetID, &created); err != nil {
			return nil, fmt.Errorf("scan member row: %w", err)
		}
		if member.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse member created_at: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}
