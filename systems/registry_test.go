package systems

import (
	"testing"

	"github.com/pthm-cable/slimes/telemetry"
)

func TestSystemRegistry_CoversPerfPhases(t *testing.T) {
	reg := NewSystemRegistry()

	ids := reg.IDs()
	if len(ids) != len(telemetry.Phases) {
		t.Fatalf("registry has %d phases, perf collector has %d", len(ids), len(telemetry.Phases))
	}
	for i, phase := range telemetry.Phases {
		if ids[i] != phase {
			t.Errorf("phase %d = %q, want %q", i, ids[i], phase)
		}
		if _, ok := reg.Get(phase); !ok {
			t.Errorf("phase %q not registered", phase)
		}
	}
}

func TestSystemRegistry_Names(t *testing.T) {
	reg := NewSystemRegistry()

	if got := reg.GetName("slimes"); got != "Slimes" {
		t.Errorf("GetName(slimes) = %q", got)
	}
	if got := reg.GetName("unknown"); got != "unknown" {
		t.Errorf("GetName(unknown) = %q, want fallback to ID", got)
	}

	reg.Register(SystemInfo{ID: "slimes", Name: "Slime Rules", Category: "population"})
	if got := reg.GetName("slimes"); got != "Slime Rules" {
		t.Errorf("re-registered name = %q", got)
	}
	if n := len(reg.All()); n != len(telemetry.Phases) {
		t.Errorf("re-register grew the registry to %d", n)
	}
	if got := reg.ByCategory("world"); len(got) != 2 {
		t.Errorf("world category has %d phases, want 2", len(got))
	}
}
