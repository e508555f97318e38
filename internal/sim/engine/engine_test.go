package engine

import (
	"testing"

	"hideseek.ai/internal/sim/world"
)

func testConfig(numWorlds int) Config {
	return Config{
		NumWorlds:    numWorlds,
		Seed:         42,
		MinHiders:    1,
		MaxHiders:    3,
		MinSeekers:   1,
		MaxSeekers:   3,
		AutoReset:    true,
		InitialLevel: 1,
		Workers:      2,
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("zero config accepted")
	}

	cfg := testConfig(1)
	cfg.MaxHiders = 0
	if _, err := New(cfg); err == nil {
		t.Fatalf("inverted hider range accepted")
	}

	cfg = testConfig(1)
	cfg.InitialLevel = 9
	if _, err := New(cfg); err == nil {
		t.Fatalf("out-of-range level accepted")
	}
}

func TestWorldsAreIndependentStreams(t *testing.T) {
	e, err := New(testConfig(4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	digests := map[string]int{}
	for i := 0; i < e.NumWorlds(); i++ {
		digests[e.World(i).SceneDigest()]++
	}
	if len(digests) != e.NumWorlds() {
		t.Fatalf("expected %d distinct scenes, got %d", e.NumWorlds(), len(digests))
	}
}

func TestBatchDeterminism(t *testing.T) {
	a, err := New(testConfig(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, _ := New(testConfig(3))

	act := world.Action{X: 8, Y: 7, R: 4}
	for tick := 0; tick < 20; tick++ {
		for wi := 0; wi < 3; wi++ {
			a.SetAction(wi, 0, act)
			b.SetAction(wi, 0, act)
		}
		a.Step()
		b.Step()
	}

	ea, eb := a.Exports(), b.Exports()
	for i := range ea.Lidar {
		if ea.Lidar[i] != eb.Lidar[i] {
			t.Fatalf("lidar tensors diverged at %d", i)
		}
	}
	for i := range ea.DebugPositions {
		if ea.DebugPositions[i] != eb.DebugPositions[i] {
			t.Fatalf("debug tensors diverged at %d", i)
		}
	}
}

func TestExportShapesFixed(t *testing.T) {
	e, err := New(testConfig(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ex := e.Exports()

	wa := 2 * world.MaxAgents
	if len(ex.Reward) != wa || len(ex.Done) != wa || len(ex.PrepCounter) != wa {
		t.Fatalf("per-agent tensor lengths wrong: %d %d %d",
			len(ex.Reward), len(ex.Done), len(ex.PrepCounter))
	}
	if len(ex.BoxObs) != wa*world.MaxBoxes*boxObsFloats {
		t.Fatalf("box obs tensor length = %d", len(ex.BoxObs))
	}
	if len(ex.Lidar) != wa*world.NumLidarSamples {
		t.Fatalf("lidar tensor length = %d", len(ex.Lidar))
	}

	before := len(ex.AgentObs)
	for tick := 0; tick < 5; tick++ {
		e.Step()
	}
	if len(e.Exports().AgentObs) != before {
		t.Fatalf("tensor reallocated between steps")
	}
}

func TestExportsMatchWorldState(t *testing.T) {
	e, err := New(testConfig(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for tick := 0; tick < 10; tick++ {
		e.Step()
	}

	ex := e.Exports()
	for wi := 0; wi < e.NumWorlds(); wi++ {
		w := e.World(wi)
		for slot := 0; slot < world.MaxAgents; slot++ {
			a := w.Agent(slot)
			flat := wi*world.MaxAgents + slot
			if ex.Reward[flat] != a.Reward || ex.Done[flat] != a.Done {
				t.Fatalf("world %d slot %d: export (%f,%d) != state (%f,%d)",
					wi, slot, ex.Reward[flat], ex.Done[flat], a.Reward, a.Done)
			}
			if ex.ActiveMask[flat] != a.ActiveMask {
				t.Fatalf("world %d slot %d active mask mismatch", wi, slot)
			}
			if ex.Seed[flat*2] != a.Seed.A || ex.Seed[flat*2+1] != a.Seed.B {
				t.Fatalf("world %d slot %d seed mismatch", wi, slot)
			}
		}
	}
}

func TestTriggerResetPerWorld(t *testing.T) {
	e, err := New(testConfig(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for tick := 0; tick < 10; tick++ {
		e.Step()
	}

	if err := e.TriggerReset(1, 5); err != nil {
		t.Fatalf("TriggerReset: %v", err)
	}
	e.Step()

	if got := e.World(1).NumActiveAgents(); got != 1 {
		t.Fatalf("world 1 after debug reset has %d agents, want 1", got)
	}
	if e.World(0).StepIdx() != 11 {
		t.Fatalf("world 0 was reset too: stepIdx=%d", e.World(0).StepIdx())
	}

	if err := e.TriggerReset(5, 1); err == nil {
		t.Fatalf("out-of-range world accepted")
	}
	if err := e.TriggerReset(0, 9); err == nil {
		t.Fatalf("out-of-range level accepted")
	}
}
