package indexdb

import (
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"hideseek.ai/internal/sim/world"
)

func TestSQLiteIndex_EpisodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	idx.EpisodeStarted(world.EpisodeStart{
		World: 3, Episode: 0, Level: 1,
		SeedA: 0, SeedB: 3,
		Hiders: 2, Seekers: 1, Boxes: 7, Ramps: 2,
		Digest: "abc123",
	})
	idx.EpisodeEnded(world.EpisodeEnd{World: 3, Episode: 0, Steps: 240, TeamReward: -1})
	idx.EpisodeStarted(world.EpisodeStart{
		World: 3, Episode: 1, Level: 1,
		SeedA: 1, SeedB: 3,
		Hiders: 1, Seekers: 3, Boxes: 4, Ramps: 2,
		Digest: "def456",
	})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	idx2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx2.Close()

	rows, err := idx2.Episodes(3, 0)
	if err != nil {
		t.Fatalf("Episodes: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.Episode != 0 || first.Digest != "abc123" || first.Hiders != 2 || first.Seekers != 1 {
		t.Fatalf("first row mismatch: %+v", first)
	}
	if !first.Steps.Valid || first.Steps.Int64 != 240 {
		t.Fatalf("first row steps = %+v, want 240", first.Steps)
	}
	if !first.TeamReward.Valid || first.TeamReward.Float64 != -1 {
		t.Fatalf("first row team_reward = %+v, want -1", first.TeamReward)
	}

	second := rows[1]
	if second.Episode != 1 || second.Digest != "def456" {
		t.Fatalf("second row mismatch: %+v", second)
	}
	if second.Steps.Valid {
		t.Fatalf("second row should have no end yet: %+v", second.Steps)
	}
}

func TestSQLiteIndex_RestartResolvesToLatestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	// A re-emitted start for the same (world, episode) replaces the row.
	idx.EpisodeStarted(world.EpisodeStart{World: 0, Episode: 5, Level: 1, Digest: "old"})
	idx.EpisodeStarted(world.EpisodeStart{World: 0, Episode: 5, Level: 6, Digest: "new"})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	idx2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx2.Close()

	rows, err := idx2.Episodes(0, 10)
	if err != nil {
		t.Fatalf("Episodes: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Level != 6 || rows[0].Digest != "new" {
		t.Fatalf("row not replaced: %+v", rows[0])
	}
}
