package scenario

import (
	"testing"

	"github.com/milk9111/tension/director"
)

const testScript = `
participants := ["alpha", "beta"]

events := func(tick, signal) {
	out := []
	if tick == 3 {
		out = append(out, {participant: "alpha", type: "damaged"})
		out = append(out, {participant: "beta", type: "killed_near"})
	}
	if signal > 0.8 {
		out = append(out, {participant: "beta", type: "incapacitated"})
	}
	return out
}
`

func TestRuntimeParticipants(t *testing.T) {
	rt, err := New([]byte(testScript))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := rt.Participants()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("participants = %v", got)
	}
}

func TestRuntimeEvents(t *testing.T) {
	rt, err := New([]byte(testScript))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	t.Run("quiet_tick", func(t *testing.T) {
		events, err := rt.Events(0, 0)
		if err != nil {
			t.Fatalf("events: %v", err)
		}
		if len(events) != 0 {
			t.Fatalf("expected no events, got %v", events)
		}
	})

	t.Run("scripted_tick", func(t *testing.T) {
		events, err := rt.Events(3, 0)
		if err != nil {
			t.Fatalf("events: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %v", events)
		}
		if events[0].Participant != "alpha" || events[0].Type != director.EventDamaged {
			t.Fatalf("first event = %+v", events[0])
		}
		if events[1].Participant != "beta" || events[1].Type != director.EventKilledNear {
			t.Fatalf("second event = %+v", events[1])
		}
	})

	t.Run("signal_reactive", func(t *testing.T) {
		events, err := rt.Events(10, 0.9)
		if err != nil {
			t.Fatalf("events: %v", err)
		}
		if len(events) != 1 || events[0].Type != director.EventIncapacitated {
			t.Fatalf("events = %v", events)
		}
	})
}

func TestRuntimeRejectsBadOutput(t *testing.T) {
	cases := []struct {
		name   string
		script string
	}{
		{"unknown_event_type", `
participants := ["a"]
events := func(tick, signal) {
	return [{participant: "a", type: "tickled"}]
}
`},
		{"missing_participant", `
events := func(tick, signal) {
	return [{type: "damaged"}]
}
`},
		{"undefined_participant", `
events := func(tick, signal) {
	return [{participant: undefined, type: "damaged"}]
}
`},
		{"missing_type", `
participants := ["a"]
events := func(tick, signal) {
	return [{participant: "a"}]
}
`},
		{"non_map_entry", `
events := func(tick, signal) {
	return ["damaged"]
}
`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rt, err := New([]byte(c.script))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if _, err := rt.Events(0, 0); err == nil {
				t.Fatalf("expected error from malformed script output")
			}
		})
	}
}

func TestRuntimeRejectsMissingEventsFunction(t *testing.T) {
	if _, err := New([]byte(`participants := ["a"]`)); err == nil {
		t.Fatalf("expected compile error for script without events function")
	}
}

func TestLoadEmbeddedScenario(t *testing.T) {
	rt, err := Load("onslaught.tengo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rt.Participants()) != 4 {
		t.Fatalf("participants = %v", rt.Participants())
	}
	events, err := rt.Events(45, 0)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) == 0 {
		t.Fatalf("expected chip damage at tick 45")
	}
	for _, ev := range events {
		if !director.KnownEventType(ev.Type) {
			t.Fatalf("embedded scenario produced unknown event %q", ev.Type)
		}
	}
}
