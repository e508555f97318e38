package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"hideseek.ai/internal/protocol"
)

func main() {
	var (
		url    = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name   = flag.String("name", "bot", "agent name")
		world  = flag.Int("world", -1, "preferred world index (-1 = any)")
		seed   = flag.Int64("seed", 0, "policy rng seed (0 = non-deterministic)")
		policy = flag.String("policy", "random", "action policy: random or idle")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		AgentName:       *name,
		WorldPreference: *world,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	var r *rand.Rand
	if *seed != 0 {
		r = rand.New(rand.NewSource(*seed))
	} else {
		r = rand.New(rand.NewSource(int64(os.Getpid())))
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME agent_id=%s world=%d slot=%d tick_rate=%d seed=%d",
				w.AgentID, w.World, w.Slot, w.WorldParams.TickRateHz, w.WorldParams.Seed)

		case protocol.TypeObs:
			var obs protocol.ObsMsg
			if err := json.Unmarshal(msg, &obs); err != nil {
				continue
			}
			if obs.Active == 0 {
				continue
			}
			act := protocol.ActMsg{
				Type:            protocol.TypeAct,
				ProtocolVersion: protocol.Version,
				Tick:            obs.Tick,
				Action:          pickAction(*policy, r),
			}
			_ = conn.WriteJSON(act)
			if obs.Done != 0 {
				logger.Printf("episode %d done: reward=%.1f", obs.Episode, obs.Reward)
			}

		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				continue
			}
			logger.Fatalf("server error: %s: %s", e.Code, e.Message)
		}
	}
}

func pickAction(policy string, r *rand.Rand) protocol.ActionReq {
	if policy == "idle" {
		return protocol.ActionReq{X: 5, Y: 5, R: 5}
	}
	return protocol.ActionReq{
		X: int32(r.Intn(11)),
		Y: int32(r.Intn(11)),
		R: int32(r.Intn(11)),
		G: int32(r.Intn(2)),
		L: int32(r.Intn(2)),
	}
}
