package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"hideseek.ai/internal/sim/tuning"
	"hideseek.ai/internal/sim/world"
)

// Episode scenes are a pure function of (base seed, world index, episode
// counter, level), so an episode log plus the tuning it ran under is enough
// to rebuild every scene and check its digest.

type episodeRecord struct {
	Kind string              `json:"kind"`
	At   time.Time           `json:"at"`
	Strt *world.EpisodeStart `json:"start,omitempty"`
	End  *world.EpisodeEnd   `json:"end,omitempty"`
}

func main() {
	var (
		eventsDir  = flag.String("events", "", "dir containing episodes-*.jsonl.zst")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		seed       = flag.Uint("seed", 0, "base seed (overrides tuning when > 0)")
		onlyWorld  = flag.Int("world", -1, "verify one world only (-1 = all)")
	)
	flag.Parse()

	if *eventsDir == "" {
		fmt.Fprintln(os.Stderr, "missing -events")
		os.Exit(2)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		tune = tuning.Defaults()
	}
	if *seed > 0 {
		tune.Seed = uint32(*seed)
	}

	files, err := listEventFiles(*eventsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no episode files found in", *eventsDir)
		os.Exit(1)
	}

	worlds := map[uint32]*world.World{}
	worldFor := func(idx uint32) *world.World {
		if w, ok := worlds[idx]; ok {
			return w
		}
		w := world.New(world.Config{
			WorldIdx:     idx,
			Seed:         tune.Seed,
			MinHiders:    tune.MinHiders,
			MaxHiders:    tune.MaxHiders,
			MinSeekers:   tune.MinSeekers,
			MaxSeekers:   tune.MaxSeekers,
			InitialLevel: tune.InitialLevel,
		})
		worlds[idx] = w
		return w
	}

	var checked int
	for _, path := range files {
		if err := replayFile(path, *onlyWorld, worldFor, &checked); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("replay ok: checked=%d episodes across %d worlds (seed=%d)\n", checked, len(worlds), tune.Seed)
}

func listEventFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "episodes-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func replayFile(path string, onlyWorld int, worldFor func(uint32) *world.World, checked *int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for sc.Scan() {
		var rec episodeRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		if rec.Kind != "start" || rec.Strt == nil {
			continue
		}
		e := *rec.Strt
		if onlyWorld >= 0 && e.World != uint32(onlyWorld) {
			continue
		}

		w := worldFor(e.World)
		if got := w.Episode(); got != e.Episode {
			return fmt.Errorf("world %d: episode mismatch: log=%d rebuilt=%d (file=%s)",
				e.World, e.Episode, got, filepath.Base(path))
		}

		// A reset tick regenerates the scene without running physics.
		w.TriggerReset(e.Level)
		w.Step()

		if got := w.SceneDigest(); got != e.Digest {
			return fmt.Errorf("world %d episode %d: digest mismatch: got=%s want=%s",
				e.World, e.Episode, got, e.Digest)
		}
		*checked++
	}
	return sc.Err()
}
