package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xHacka/login-log-generator/internal/export"
	"github.com/xHacka/login-log-generator/internal/models"
)

func noConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.yaml")
}

func TestRunWritesCSVToStdout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-config", noConfig(t),
		"-users", "Alice, bob",
		"-from", "2023-01-01",
		"-n", "3",
		"-bias", "1",
		"-seed", "9",
	}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	table, err := export.ParseDelimitedText(&stdout)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table))
	}
	for _, r := range table {
		if r.Successful != models.Success || r.Timestamp.Format(models.DateLayout) != "2023-01-01" {
			t.Fatalf("unexpected row %+v", r)
		}
	}
}

func TestRunSeedIsDeterministic(t *testing.T) {
	args := []string{"-config", noConfig(t), "-users", "a,b,c", "-from", "2023-01-01", "-to", "2023-06-30", "-n", "20", "-seed", "4"}
	var a, b bytes.Buffer
	if code := run(args, &a, &bytes.Buffer{}); code != exitOK {
		t.Fatalf("first run exited %d", code)
	}
	if code := run(args, &b, &bytes.Buffer{}); code != exitOK {
		t.Fatalf("second run exited %d", code)
	}
	if a.String() != b.String() {
		t.Fatalf("expected identical output for the same seed")
	}
}

func TestRunJSONGzipFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "logs.json.gz")
	code := run([]string{
		"-config", noConfig(t),
		"-users", "carol",
		"-from", "2023-01-01", "-to", "2023-01-03",
		"-n", "7",
		"-format", "json",
		"-compress", "gzip",
		"-out", out,
	}, &bytes.Buffer{}, &bytes.Buffer{})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	r, err := export.Gzip.Unwrap(f)
	if err != nil {
		t.Fatalf("unwrap: %v", err)
	}
	defer r.Close()
	var table models.LogTable
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(table) != 7 || table[6].LogID != 7 {
		t.Fatalf("unexpected table %+v", table)
	}
}

func TestRunValidationExitCodes(t *testing.T) {
	cases := map[string][]string{
		"no users":      {"-from", "2023-01-01", "-n", "5"},
		"bad bias":      {"-users", "a", "-from", "2023-01-01", "-bias", "1.5"},
		"zero quantity": {"-users", "a", "-from", "2023-01-01", "-n", "0"},
		"inverted":      {"-users", "a", "-from", "2023-01-05", "-to", "2023-01-01"},
		"no dates":      {"-users", "a"},
		"bad format":    {"-users", "a", "-from", "2023-01-01", "-format", "xml"},
		"unknown flag":  {"-bogus"},
	}
	for name, args := range cases {
		var stderr bytes.Buffer
		code := run(append([]string{"-config", noConfig(t)}, args...), &bytes.Buffer{}, &stderr)
		if code != exitInvalid {
			t.Errorf("%s: expected exit %d, got %d (%s)", name, exitInvalid, code, strings.TrimSpace(stderr.String()))
		}
	}
}

func TestRunReportsUsernamesBeforeDates(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"-config", noConfig(t), "-from", "2023-01-05", "-to", "2023-01-01"}, &bytes.Buffer{}, &stderr)
	if code != exitInvalid {
		t.Fatalf("expected exit %d, got %d", exitInvalid, code)
	}
	if !strings.Contains(stderr.String(), "username list is empty") {
		t.Fatalf("expected the username error first, got %q", stderr.String())
	}
	if strings.Contains(stderr.String(), "invalid date interval") {
		t.Fatalf("date error reported ahead of usernames: %q", stderr.String())
	}
}
