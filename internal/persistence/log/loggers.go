package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"hideseek.ai/internal/sim/world"
)

type JSONLZstdWriter struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	dir := filepath.Dir(w.pathForHour(hour))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

func (w *JSONLZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// episodeRecord is one JSONL line in the episode event stream.
type episodeRecord struct {
	Kind string              `json:"kind"` // "start" or "end"
	At   time.Time           `json:"at"`
	Strt *world.EpisodeStart `json:"start,omitempty"`
	End  *world.EpisodeEnd   `json:"end,omitempty"`
}

// EpisodeLogger records episode lifecycle events as compressed JSONL. It
// implements world.EventSink and is safe for concurrently stepped worlds.
type EpisodeLogger struct {
	w      *JSONLZstdWriter
	errLog func(format string, args ...any)
}

func NewEpisodeLogger(dataDir string, errLog func(format string, args ...any)) *EpisodeLogger {
	if errLog == nil {
		errLog = func(string, ...any) {}
	}
	return &EpisodeLogger{
		w:      NewJSONLZstdWriter(filepath.Join(dataDir, "episodes"), "episodes"),
		errLog: errLog,
	}
}

func (l *EpisodeLogger) EpisodeStarted(e world.EpisodeStart) {
	ev := e
	if err := l.w.Write(episodeRecord{Kind: "start", At: time.Now().UTC(), Strt: &ev}); err != nil {
		l.errLog("episode log: write start: %v", err)
	}
}

func (l *EpisodeLogger) EpisodeEnded(e world.EpisodeEnd) {
	ev := e
	if err := l.w.Write(episodeRecord{Kind: "end", At: time.Now().UTC(), End: &ev}); err != nil {
		l.errLog("episode log: write end: %v", err)
	}
}

func (l *EpisodeLogger) Close() error { return l.w.Close() }
