package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"hideseek.ai/internal/persistence/indexdb"
	persistlog "hideseek.ai/internal/persistence/log"
	"hideseek.ai/internal/protocol"
	"hideseek.ai/internal/sim/engine"
	"hideseek.ai/internal/sim/tuning"
	"hideseek.ai/internal/sim/world"
	"hideseek.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		numWorlds  = flag.Int("worlds", 0, "number of worlds (overrides tuning when > 0)")
		seed       = flag.Uint("seed", 0, "base seed (overrides tuning when > 0)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite episode index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}
	if *numWorlds > 0 {
		tune.NumWorlds = *numWorlds
	}
	if *seed > 0 {
		tune.Seed = uint32(*seed)
	}
	if err := tune.Validate(); err != nil {
		logger.Fatalf("tuning: %v", err)
	}

	_ = os.MkdirAll(*dataDir, 0o755)

	episodeLog := persistlog.NewEpisodeLogger(*dataDir, logger.Printf)
	defer episodeLog.Close()

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index backend: %v", err)
		}
		defer idx.Close()
	}

	eng, err := engine.New(engine.Config{
		NumWorlds:    tune.NumWorlds,
		Seed:         tune.Seed,
		MinHiders:    tune.MinHiders,
		MaxHiders:    tune.MaxHiders,
		MinSeekers:   tune.MinSeekers,
		MaxSeekers:   tune.MaxSeekers,
		AutoReset:    tune.AutoReset,
		InitialLevel: tune.InitialLevel,
		Workers:      tune.Workers,
		Events:       multiEventSink{a: episodeLog, b: idx},
	})
	if err != nil {
		logger.Fatalf("engine: %v", err)
	}
	logger.Printf("engine up: worlds=%d seed=%d level=%d", eng.NumWorlds(), tune.Seed, tune.InitialLevel)

	ctx, cancel := signalContext()
	defer cancel()

	wss := ws.NewServer(eng, protocol.WorldParams{
		NumWorlds:    eng.NumWorlds(),
		MaxAgents:    world.MaxAgents,
		EpisodeLen:   world.EpisodeLen,
		NumPrepSteps: world.NumPrepSteps,
		TickRateHz:   tune.TickRateHz,
		Seed:         tune.Seed,
	}, logger)

	// Tick loop. Client inputs are staged by the ws server and applied
	// here, between steps, so the worlds have a single writer.
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(tune.TickRateHz))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				wss.ApplyInputs()
				eng.Step()
				wss.Broadcast(eng.Steps())
			}
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP hideseek_engine_steps Total batch steps executed.\n")
		fmt.Fprintf(rw, "# TYPE hideseek_engine_steps counter\n")
		fmt.Fprintf(rw, "hideseek_engine_steps %d\n", eng.Steps())

		fmt.Fprintf(rw, "# HELP hideseek_world_episode Current episode per world.\n")
		fmt.Fprintf(rw, "# TYPE hideseek_world_episode gauge\n")
		fmt.Fprintf(rw, "# HELP hideseek_world_step Current step index per world.\n")
		fmt.Fprintf(rw, "# TYPE hideseek_world_step gauge\n")
		fmt.Fprintf(rw, "# HELP hideseek_world_agents Active agents per world.\n")
		fmt.Fprintf(rw, "# TYPE hideseek_world_agents gauge\n")
		for i := 0; i < eng.NumWorlds(); i++ {
			w := eng.World(i)
			fmt.Fprintf(rw, "hideseek_world_episode{world=\"%d\"} %d\n", i, w.Episode())
			fmt.Fprintf(rw, "hideseek_world_step{world=\"%d\"} %d\n", i, w.StepIdx())
			fmt.Fprintf(rw, "hideseek_world_agents{world=\"%d\"} %d\n", i, w.NumActiveAgents())
		}
	})
	if envBool("HS_ENABLE_PPROF_HTTP", false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	} else {
		logger.Printf("pprof endpoints disabled (HS_ENABLE_PPROF_HTTP=false)")
	}
	mux.HandleFunc("/v1/ws", wss.Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// multiEventSink fans episode events out to the JSONL log and the sqlite
// index. A nil index (e.g. -disable_db) is skipped.
type multiEventSink struct {
	a world.EventSink
	b *indexdb.SQLiteIndex
}

func (m multiEventSink) EpisodeStarted(e world.EpisodeStart) {
	if m.a != nil {
		m.a.EpisodeStarted(e)
	}
	if m.b != nil {
		m.b.EpisodeStarted(e)
	}
}

func (m multiEventSink) EpisodeEnded(e world.EpisodeEnd) {
	if m.a != nil {
		m.a.EpisodeEnded(e)
	}
	if m.b != nil {
		m.b.EpisodeEnded(e)
	}
}
