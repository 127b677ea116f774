package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jacksonlee411/orgcatalog/internal/migrations"
	menutypes "github.com/jacksonlee411/orgcatalog/modules/menu/domain/types"
	menupersistence "github.com/jacksonlee411/orgcatalog/modules/menu/infrastructure/persistence"
	"github.com/jacksonlee411/orgcatalog/pkg/configuration"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
)

func intPtr(v int) *int { return &v }

func TestVerifyMenus_OK(t *testing.T) {
	store := menupersistence.NewMenuMemoryStore(
		menutypes.Menu{ID: 1, Name: "Catálogos"},
		menutypes.Menu{ID: 2, Name: "Puestos", ParentID: intPtr(1)},
	)
	var out bytes.Buffer
	if err := verifyMenus(context.Background(), store, logging.Nop(), &out); err != nil {
		t.Fatalf("err=%v", err)
	}
	if out.String() != "[menus-verify] OK\n" {
		t.Fatalf("out=%q", out.String())
	}
}

func TestVerifyMenus_ReportsCycles(t *testing.T) {
	store := menupersistence.NewMenuMemoryStore(
		menutypes.Menu{ID: 1, Name: "A", ParentID: intPtr(2)},
		menutypes.Menu{ID: 2, Name: "B", ParentID: intPtr(1)},
		menutypes.Menu{ID: 3, Name: "C"},
	)
	var out bytes.Buffer
	err := verifyMenus(context.Background(), store, logging.Nop(), &out)
	if !errors.Is(err, errMenuCycles) {
		t.Fatalf("err=%v", err)
	}
	if !strings.Contains(out.String(), "menu 1:") || !strings.Contains(out.String(), "menu 2:") || strings.Contains(out.String(), "menu 3:") {
		t.Fatalf("out=%q", out.String())
	}
}

func TestPruneLogs(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-40 * 24 * time.Hour)
	for _, name := range []string{"orgcatalog.log", "orgcatalog-2024-01-01T00-00-00.000.log", "recent.log"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if name != "recent.log" {
			if err := os.Chtimes(path, old, old); err != nil {
				t.Fatal(err)
			}
		}
	}

	var out bytes.Buffer
	opts := configuration.LogOptions{Dir: dir, File: "orgcatalog.log"}
	if err := pruneLogs(context.Background(), opts, 30, logging.Nop(), &out); err != nil {
		t.Fatalf("err=%v", err)
	}
	want := "deleted orgcatalog-2024-01-01T00-00-00.000.log\n[logs-prune] OK deleted=1\n"
	if out.String() != want {
		t.Fatalf("out=%q", out.String())
	}
	for _, name := range []string{"orgcatalog.log", "recent.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestPruneLogs_RejectsBadDays(t *testing.T) {
	opts := configuration.LogOptions{Dir: t.TempDir(), File: "orgcatalog.log"}
	if err := pruneLogs(context.Background(), opts, 0, logging.Nop(), &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	printStatus(&out, []migrations.Status{
		{Version: 1, Path: "00001_menu.sql", Applied: true, AppliedAt: at},
		{Version: 2, Path: "00002_jobcatalog.sql"},
	})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("out=%q", out.String())
	}
	if !strings.HasPrefix(lines[0], "00001 00001_menu.sql") || !strings.HasSuffix(lines[0], "applied 2024-05-01T12:00:00Z") {
		t.Fatalf("line=%q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "pending") {
		t.Fatalf("line=%q", lines[1])
	}
}

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()
	for _, path := range [][]string{{"migrate", "up"}, {"migrate", "down"}, {"migrate", "status"}, {"menus-verify"}, {"logs-prune"}} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Fatalf("path=%v cmd=%v err=%v", path, cmd, err)
		}
	}
	cmd, _, _ := root.Find([]string{"logs-prune"})
	if f := cmd.Flags().Lookup("older-than-days"); f == nil || f.DefValue != "30" {
		t.Fatalf("flag=%+v", f)
	}
}

func TestRootCmd_RejectsExtraArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"menus-verify", "extra"})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error")
	}
}
