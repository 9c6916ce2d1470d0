/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"overlayedit/internal/baseimage"
	"overlayedit/internal/config"
	applog "overlayedit/internal/log"
	"overlayedit/internal/overlay"
	"overlayedit/internal/store"
	"overlayedit/internal/telemetry"
	"overlayedit/internal/ui"
	"overlayedit/internal/version"
)

func usage() {
	fmt.Println("Overlay Edit — interactive text-overlay editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  overlayedit version|-v|--version               Show version")
	fmt.Println("  overlayedit validate <layout.json>              Validate a layout file against the schema")
	fmt.Println("  overlayedit edit <image> <layout.json>          Open the interactive editor (build with -tags fyne)")
	fmt.Println("  overlayedit probe <image>                       Print base image format and dimensions")
	fmt.Println("  overlayedit roundtrip <layout.json>             Parse a layout and print its round-trip form")
	fmt.Println("  overlayedit recent [n]                          List recently committed edits from the journal")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	tcfg := telemetry.FromEnv()
	if cfg.General.TelemetryOptIn {
		tcfg.OptIn = true
	}
	telemetry.NewDefault(tcfg)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Overlay Edit — interactive text-overlay editor")
		fmt.Println(version.String())
	case "validate":
		if len(args) < 3 {
			fmt.Println("validate requires <layout.json>")
			usage()
			os.Exit(2)
		}
		data, err := os.ReadFile(args[2])
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		layout, err := overlay.ParseLayout(data)
		if err != nil {
			l.Error("validation failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Printf("Valid layout: %d elements\n", len(layout.Elements))
	case "edit":
		if len(args) < 4 {
			fmt.Println("edit requires <image> and <layout.json>")
			usage()
			os.Exit(2)
		}
		imagePath, _ := filepath.Abs(args[2])
		layoutPath, _ := filepath.Abs(args[3])
		l.Info("edit", slog.String("image", imagePath), slog.String("layout", layoutPath))
		res, err := ui.Edit(imagePath, layoutPath)
		if err != nil {
			l.Error("edit failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println(res.Summary())
		if res == nil {
			os.Exit(1)
		}
		// journal the committed result for the recent listing
		if err := journalCommit(cfg, imagePath, res.Text, res.Overlays); err != nil {
			l.Warn("journal write failed", slog.Any("err", err))
		}
		out, err := json.MarshalIndent(res.Overlays.ToLayout(), "", "  ")
		if err == nil {
			fmt.Println(string(out))
		}
	case "probe":
		if len(args) < 3 {
			fmt.Println("probe requires <image>")
			usage()
			os.Exit(2)
		}
		ref, err := baseimage.Open(args[2])
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Printf("%s %dx%d\n", ref.Format, ref.Width, ref.Height)
	case "roundtrip":
		if len(args) < 3 {
			fmt.Println("roundtrip requires <layout.json>")
			usage()
			os.Exit(2)
		}
		data, err := os.ReadFile(args[2])
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		layout, err := overlay.ParseLayout(data)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		overlays := overlay.FromLayout(layout)
		out, err := json.MarshalIndent(overlays.ToLayout(), "", "  ")
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	case "recent":
		limit := 10
		if len(args) >= 3 {
			if n, err := strconv.Atoi(args[2]); err == nil && n > 0 {
				limit = n
			}
		}
		if err := listRecent(cfg, limit); err != nil {
			l.Error("recent failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func journalCommit(cfg config.AppConfig, imagePath string, tc overlay.TextContent, overlays overlay.Collection) error {
	if !cfg.Editor.JournalEnabled {
		return nil
	}
	path, err := journalPath(cfg)
	if err != nil {
		return err
	}
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = store.SaveCommit(context.Background(), db, imagePath, tc, overlays)
	return err
}

func listRecent(cfg config.AppConfig, limit int) error {
	path, err := journalPath(cfg)
	if err != nil {
		return err
	}
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	entries, err := store.Recent(context.Background(), db, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No committed edits recorded yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  headline=%q\n", e.CreatedAt.Format("2006-01-02 15:04"), e.ImagePath, e.Headline)
	}
	return nil
}

func journalPath(cfg config.AppConfig) (string, error) {
	if cfg.Editor.JournalPath != "" {
		return cfg.Editor.JournalPath, nil
	}
	return store.DefaultPath()
}
