package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"hideseek.ai/internal/sim/world"
)

// SQLiteIndex is a secondary read-model over the episode event stream. It
// implements world.EventSink: events are queued to a single writer
// goroutine so worlds stepping in parallel never block on the database.
// The JSONL logs remain the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqStart reqKind = iota + 1
	reqEnd
)

type req struct {
	kind  reqKind
	start world.EpisodeStart
	end   world.EpisodeEnd
}

// EpisodeRow is one indexed episode, joined across its start and (when the
// episode has finished) end events.
type EpisodeRow struct {
	World   uint32
	Episode uint32
	Level   int32
	SeedA   uint32
	SeedB   uint32
	Hiders  int
	Seekers int
	Boxes   int
	Ramps   int
	Digest  string

	Steps      sql.NullInt64
	TeamReward sql.NullFloat64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// Episodes turn over every few hundred ticks per world, so the
		// buffer only needs to absorb reset bursts across many worlds.
		ch: make(chan req, 16384),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	// NORMAL is a decent durability/perf tradeoff for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS episodes (
			world INTEGER NOT NULL,
			episode INTEGER NOT NULL,
			level INTEGER NOT NULL,
			seed_a INTEGER NOT NULL,
			seed_b INTEGER NOT NULL,
			hiders INTEGER NOT NULL,
			seekers INTEGER NOT NULL,
			boxes INTEGER NOT NULL,
			ramps INTEGER NOT NULL,
			digest TEXT NOT NULL,
			started_at TEXT NOT NULL,
			PRIMARY KEY (world, episode)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_digest ON episodes(digest);`,
		`CREATE TABLE IF NOT EXISTS episode_ends (
			world INTEGER NOT NULL,
			episode INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			team_reward REAL NOT NULL,
			ended_at TEXT NOT NULL,
			PRIMARY KEY (world, episode)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) EpisodeStarted(e world.EpisodeStart) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqStart, start: e}:
	default:
		// Drop if the indexer falls behind; JSONL logs remain the source of truth.
	}
}

func (s *SQLiteIndex) EpisodeEnded(e world.EpisodeEnd) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqEnd, end: e}:
	default:
	}
}

// Episodes returns the indexed episodes of one world, oldest first.
func (s *SQLiteIndex) Episodes(worldIdx uint32, limit int) ([]EpisodeRow, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.Query(`
		SELECT e.world, e.episode, e.level, e.seed_a, e.seed_b,
		       e.hiders, e.seekers, e.boxes, e.ramps, e.digest,
		       x.steps, x.team_reward
		FROM episodes e
		LEFT JOIN episode_ends x ON x.world = e.world AND x.episode = e.episode
		WHERE e.world = ?
		ORDER BY e.episode ASC
		LIMIT ?`, worldIdx, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EpisodeRow
	for rows.Next() {
		var r EpisodeRow
		if err := rows.Scan(&r.World, &r.Episode, &r.Level, &r.SeedA, &r.SeedB,
			&r.Hiders, &r.Seekers, &r.Boxes, &r.Ramps, &r.Digest,
			&r.Steps, &r.TeamReward); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertStart, _ := s.db.Prepare(`INSERT OR REPLACE INTO episodes(world,episode,level,seed_a,seed_b,hiders,seekers,boxes,ramps,digest,started_at) VALUES(?,?,?,?,?,?,?,?,?,?,?)`)
	insertEnd, _ := s.db.Prepare(`INSERT OR REPLACE INTO episode_ends(world,episode,steps,team_reward,ended_at) VALUES(?,?,?,?,?)`)
	defer func() {
		if insertStart != nil {
			_ = insertStart.Close()
		}
		if insertEnd != nil {
			_ = insertEnd.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 256
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	flushIfNeeded := func() {
		if tx == nil {
			return
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		now := time.Now().UTC().Format(time.RFC3339Nano)
		switch r.kind {
		case reqStart:
			e := r.start
			if insertStart != nil {
				if _, err := tx.Stmt(insertStart).Exec(
					int64(e.World), int64(e.Episode), int64(e.Level),
					int64(e.SeedA), int64(e.SeedB),
					e.Hiders, e.Seekers, e.Boxes, e.Ramps,
					e.Digest, now,
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}

		case reqEnd:
			e := r.end
			if insertEnd != nil {
				if _, err := tx.Stmt(insertEnd).Exec(
					int64(e.World), int64(e.Episode),
					e.Steps, float64(e.TeamReward), now,
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}
		}
		flushIfNeeded()
	}

	commit()
}
