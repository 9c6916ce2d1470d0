/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package store keeps an optional local journal of committed editing
// sessions in an embedded SQLite database. Only the commit output (text
// payload plus round-trip layout) is recorded; in-session state never
// persists.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "overlayedit/internal/log"
	"overlayedit/internal/overlay"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	JournalFileName = "journal.sqlite"

	// schemaVersion tracks the embedded journal schema. Bump on breaking
	// changes and add a migration in ensureSchema.
	schemaVersion = 1
)

// DefaultPath returns the per-user journal location next to the config file.
func DefaultPath() (string, error) {
	home, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(home, "overlayedit", JournalFileName), nil
}

// Open opens (or creates) the journal database at path, enables WAL mode and
// ensures the schema is current. Callers close the returned handle when done.
func Open(path string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("store"), "journal_open").With(
		slog.String("path", path),
	)
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create journal dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		l.Error("open journal failed", slog.Any("err", err))
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	l.Debug("journal ready")
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS commits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		image_path TEXT NOT NULL,
		headline TEXT NOT NULL DEFAULT '',
		subheadline TEXT NOT NULL DEFAULT '',
		cta TEXT NOT NULL DEFAULT '',
		layout_json TEXT NOT NULL
	);`); err != nil {
		return fmt.Errorf("create commits table: %w", err)
	}
	_, err := db.Exec(`INSERT INTO meta(key, value) VALUES('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, fmt.Sprint(schemaVersion))
	if err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

// Entry is one journaled commit.
type Entry struct {
	ID          int64
	CreatedAt   time.Time
	ImagePath   string
	Headline    string
	Subheadline string
	CTA         string
	LayoutJSON  string
}

// SaveCommit records a committed session. The overlay collection is reduced
// to its round-trip layout so a regeneration flow can replay it.
func SaveCommit(ctx context.Context, db *sql.DB, imagePath string, tc overlay.TextContent, overlays overlay.Collection) (int64, error) {
	layoutJSON, err := json.Marshal(overlays.ToLayout())
	if err != nil {
		return 0, fmt.Errorf("marshal layout: %w", err)
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO commits(created_at, image_path, headline, subheadline, cta, layout_json)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), imagePath,
		tc.Headline, tc.Subheadline, tc.CTA, string(layoutJSON))
	if err != nil {
		return 0, fmt.Errorf("insert commit: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("commit id: %w", err)
	}
	applog.WithComponent("store").Info("commit journaled",
		slog.Int64("id", id), slog.String("image", imagePath))
	return id, nil
}

// Recent returns up to limit journaled commits, newest first.
func Recent(ctx context.Context, db *sql.DB, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, created_at, image_path, headline, subheadline, cta, layout_json
		 FROM commits ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query commits: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &created, &e.ImagePath, &e.Headline, &e.Subheadline, &e.CTA, &e.LayoutJSON); err != nil {
			return nil, fmt.Errorf("scan commit: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = ts
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
