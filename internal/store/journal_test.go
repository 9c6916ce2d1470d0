/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"overlayedit/internal/overlay"
)

func testCollection() overlay.Collection {
	return overlay.Collection{
		{ID: "1", Kind: overlay.KindHeadline, Text: "Launch Day", X: 50, Y: 15, Scale: 1.25, Anchor: overlay.AlignCenter,
			Style: overlay.Style{FontFamily: "Inter", FontSize: 64, FontWeight: 700, Color: "#ffffff"}},
		{ID: "2", Kind: overlay.KindCTA, Text: "Buy now", X: 50, Y: 85, Scale: 1, Anchor: overlay.AlignCenter,
			Style: overlay.Style{FontFamily: "Inter", FontSize: 28, FontWeight: 600, Color: "#ffcc00"}},
	}
}

func TestSaveAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.sqlite")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	c := testCollection()
	tc := c.TextContent()
	id, err := SaveCommit(ctx, db, "/tmp/base.png", tc, c)
	if err != nil {
		t.Fatalf("save commit: %v", err)
	}
	if id <= 0 {
		t.Fatalf("commit id = %d", id)
	}
	if _, err := SaveCommit(ctx, db, "/tmp/base2.png", tc, c); err != nil {
		t.Fatalf("second save: %v", err)
	}

	entries, err := Recent(ctx, db, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// newest first
	if entries[0].ImagePath != "/tmp/base2.png" {
		t.Fatalf("order: first entry = %q", entries[0].ImagePath)
	}
	if entries[0].Headline != "Launch Day" || entries[0].CTA != "Buy now" {
		t.Fatalf("payload fields: %+v", entries[0])
	}
	if entries[0].CreatedAt.IsZero() {
		t.Fatalf("created_at not parsed")
	}

	// layout JSON must round-trip with the scale folded into fontSize
	var l overlay.Layout
	if err := json.Unmarshal([]byte(entries[0].LayoutJSON), &l); err != nil {
		t.Fatalf("layout json: %v", err)
	}
	if len(l.Elements) != 2 || l.Elements[0].Style.FontSize != 80 {
		t.Fatalf("layout round trip: %+v", l.Elements)
	}
}

func TestRecentLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.sqlite")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer db.Close()
	ctx := context.Background()
	c := testCollection()
	for i := 0; i < 5; i++ {
		if _, err := SaveCommit(ctx, db, "/tmp/x.png", c.TextContent(), c); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	entries, err := Recent(ctx, db, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestOpenTwiceKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.sqlite")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db.Close()
	db, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer db.Close()
	var v string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key='schema_version'`).Scan(&v); err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != "1" {
		t.Fatalf("schema version = %q", v)
	}
}
