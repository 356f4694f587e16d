package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spext/internal/models"
	"spext/internal/shared"
	"spext/internal/store"
)

func newTestRunner(out io.Writer) *Runner {
	return NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: out})
}

func TestNewRunner(t *testing.T) {
	t.Run("fills in defaults", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})
		if r.config == nil || r.logger == nil || r.output == nil {
			t.Errorf("expected all dependencies set, got %+v", r)
		}
	})

	t.Run("registers every command", func(t *testing.T) {
		commands := newTestRunner(io.Discard).register()

		names := make(map[string]bool, len(commands))
		for _, c := range commands {
			names[c.Name] = true
		}
		for _, want := range []string{"setup", "run", "report", "genres"} {
			if !names[want] {
				t.Errorf("expected command %q registered", want)
			}
		}
	})
}

func TestLoadConfig(t *testing.T) {
	r := newTestRunner(io.Discard)

	t.Run("absent file falls back to defaults", func(t *testing.T) {
		config := r.loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if config.API.BaseURL == "" {
			t.Error("expected default config, got empty base url")
		}
	})

	t.Run("reads an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := "[credentials.spotify]\nclient_id = \"abc\"\nclient_secret = \"xyz\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config := r.loadConfig(path)
		if config.Credentials.Spotify.ClientID != "abc" {
			t.Errorf("expected file config, got %+v", config.Credentials)
		}
	})
}

func TestReadIDSets(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "album_ids.txt"), []byte("a1\na2\n"), 0644); err != nil {
		t.Fatalf("failed to write id file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "playlist_ids.txt"), []byte("p1\n"), 0644); err != nil {
		t.Fatalf("failed to write id file: %v", err)
	}

	r := newTestRunner(io.Discard)
	ids, err := r.readIDSets(dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(ids.Albums) != 2 || len(ids.Playlists) != 1 {
		t.Errorf("unexpected id sets: %+v", ids)
	}
	if len(ids.Artists) != 0 || len(ids.Tracks) != 0 {
		t.Errorf("expected empty sets for absent files, got %+v", ids)
	}
}

func TestWriteRunSummary(t *testing.T) {
	var out bytes.Buffer
	r := newTestRunner(&out)

	ds := &models.Datasets{
		Albums: []models.Album{{AlbumID: "al1"}, {AlbumID: "al2"}},
		Users:  []models.User{{UserID: "u1"}},
	}
	res := &store.CommitResult{
		Persisted: map[string]int{"albums": 2},
		Missing:   []string{"users"},
	}

	r.writeRunSummary(ds, res)
	text := out.String()

	if !strings.Contains(text, "Extraction summary") {
		t.Errorf("missing header:\n%s", text)
	}
	if !strings.Contains(text, "albums") || !strings.Contains(text, "persisted 2") {
		t.Errorf("missing albums line:\n%s", text)
	}
	if !strings.Contains(text, "NOT PERSISTED") {
		t.Errorf("missing-table line absent:\n%s", text)
	}
}
