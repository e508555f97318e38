package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"hideseek.ai/internal/protocol"
	"hideseek.ai/internal/sim/engine"
	"hideseek.ai/internal/sim/world"
)

type slotKey struct {
	world int
	slot  int
}

type client struct {
	key  slotKey
	name string
	out  chan []byte

	pendingAct   *protocol.ActionReq
	pendingReset int32
}

// Server binds WebSocket clients to (world, slot) pairs of a running
// engine. Client inputs are staged under the lock and applied by the tick
// loop between engine steps, so the simulation itself stays single-writer.
type Server struct {
	eng    *engine.Engine
	params protocol.WorldParams
	log    *log.Logger

	mu      sync.Mutex
	clients map[slotKey]*client

	upgrader websocket.Upgrader
}

func NewServer(eng *engine.Engine, params protocol.WorldParams, logger *log.Logger) *Server {
	return &Server{
		eng:     eng,
		params:  params,
		log:     logger,
		clients: make(map[slotKey]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c := s.handshake(conn)
		if c == nil {
			return
		}
		defer s.release(c)

		done := make(chan struct{})

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-done:
					return
				case b, ok := <-c.out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						return
					}
				}
			}
		}()
		defer close(done)

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.ProtocolVersion != protocol.Version {
				continue
			}

			switch base.Type {
			case protocol.TypeAct:
				var act protocol.ActMsg
				if err := json.Unmarshal(msg, &act); err != nil {
					continue
				}
				s.mu.Lock()
				c.pendingAct = &act.Action
				s.mu.Unlock()
			case protocol.TypeReset:
				var rst protocol.ResetMsg
				if err := json.Unmarshal(msg, &rst); err != nil {
					continue
				}
				if rst.Level < 1 || rst.Level > 8 {
					continue
				}
				s.mu.Lock()
				c.pendingReset = rst.Level
				s.mu.Unlock()
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) *client {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"),
			time.Now().Add(time.Second))
		return nil
	}

	// Absent world_preference means "any world", not world 0.
	hello := protocol.HelloMsg{WorldPreference: -1}
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"),
			time.Now().Add(time.Second))
		return nil
	}
	if hello.AgentName == "" {
		hello.AgentName = "agent"
	}

	c := s.claim(hello.AgentName, hello.WorldPreference)
	if c == nil {
		_ = writeJSON(conn, protocol.ErrorMsg{
			Type:            protocol.TypeError,
			ProtocolVersion: protocol.Version,
			Code:            "NO_FREE_SLOT",
			Message:         "all agent slots are bound",
		})
		return nil
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		AgentID:         fmt.Sprintf("w%ds%d", c.key.world, c.key.slot),
		World:           c.key.world,
		Slot:            c.key.slot,
		WorldParams:     s.params,
	}
	if err := writeJSON(conn, welcome); err != nil {
		s.release(c)
		return nil
	}

	s.log.Printf("agent %q bound to world %d slot %d", c.name, c.key.world, c.key.slot)
	return c
}

// claim reserves the first free slot, honoring a world preference when one
// is given.
func (s *Server) claim(name string, pref int) *client {
	s.mu.Lock()
	defer s.mu.Unlock()

	tryWorld := func(w int) *client {
		for slot := 0; slot < world.MaxAgents; slot++ {
			k := slotKey{world: w, slot: slot}
			if _, taken := s.clients[k]; taken {
				continue
			}
			c := &client{key: k, name: name, out: make(chan []byte, 8)}
			s.clients[k] = c
			return c
		}
		return nil
	}

	if pref >= 0 && pref < s.eng.NumWorlds() {
		return tryWorld(pref)
	}
	for w := 0; w < s.eng.NumWorlds(); w++ {
		if c := tryWorld(w); c != nil {
			return c
		}
	}
	return nil
}

func (s *Server) release(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[c.key] == c {
		delete(s.clients, c.key)
		s.log.Printf("agent %q released world %d slot %d", c.name, c.key.world, c.key.slot)
	}
}

// ApplyInputs drains staged client inputs into the engine. The tick loop
// calls this right before stepping.
func (s *Server) ApplyInputs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients {
		if c.pendingAct != nil {
			a := c.pendingAct
			_ = s.eng.SetAction(c.key.world, c.key.slot, world.Action{
				X: a.X, Y: a.Y, R: a.R, G: a.G, L: a.L,
			})
			c.pendingAct = nil
		}
		if c.pendingReset != 0 {
			_ = s.eng.TriggerReset(c.key.world, c.pendingReset)
			c.pendingReset = 0
		}
	}
}

// Broadcast sends each bound client its slot's OBS for the tick that just
// ran. Slow consumers drop frames rather than stall the loop.
func (s *Server) Broadcast(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients {
		msg := s.buildObs(c, tick)
		b, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		select {
		case c.out <- b:
		default:
		}
	}
}

func (s *Server) buildObs(c *client, tick uint64) protocol.ObsMsg {
	w := s.eng.World(c.key.world)
	a := w.Agent(c.key.slot)

	msg := protocol.ObsMsg{
		Type:            protocol.TypeObs,
		ProtocolVersion: protocol.Version,
		Tick:            tick,
		World:           c.key.world,
		Slot:            c.key.slot,
		Episode:         w.Episode(),
		Step:            w.StepIdx(),
		AgentType:       int32(a.Type),
		Active:          a.ActiveMask,
		PrepCounter:     a.PrepCounter,
		Seed:            [2]uint32{a.Seed.A, a.Seed.B},
		Agents:          make([]protocol.EntityObs, len(a.AgentObs)),
		Boxes:           make([]protocol.BoxObs, len(a.BoxObs)),
		Ramps:           make([]protocol.RampObs, len(a.RampObs)),
		AgentVis:        append([]float32(nil), a.AgentVis[:]...),
		BoxVis:          append([]float32(nil), a.BoxVis[:]...),
		RampVis:         append([]float32(nil), a.RampVis[:]...),
		Lidar:           append([]float32(nil), a.Lidar[:]...),
		Reward:          a.Reward,
		Done:            a.Done,
	}
	for i, o := range a.AgentObs {
		msg.Agents[i] = protocol.EntityObs{
			Pos: [2]float32{o.Pos.X, o.Pos.Y},
			Vel: [2]float32{o.Vel.X, o.Vel.Y},
		}
	}
	for i, o := range a.BoxObs {
		msg.Boxes[i] = protocol.BoxObs{
			Pos:  [2]float32{o.Pos.X, o.Pos.Y},
			Vel:  [2]float32{o.Vel.X, o.Vel.Y},
			Size: [2]float32{o.Size.X, o.Size.Y},
			Rot:  o.Rot,
		}
	}
	for i, o := range a.RampObs {
		msg.Ramps[i] = protocol.RampObs{
			Pos: [2]float32{o.Pos.X, o.Pos.Y},
			Vel: [2]float32{o.Vel.X, o.Vel.Y},
			Rot: o.Rot,
		}
	}
	return msg
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
