// Package scenario runs tengo scripts that generate gameplay events for
// headless director sessions. A script declares the participant roster and an
// events(tick, signal) function; the runtime invokes it once per tick and
// feeds the returned events to the director, so the same script replayed
// against the same master seed reproduces a session exactly.
package scenario

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/tension/configs"
	"github.com/milk9111/tension/director"
)

const dispatchScript = `
__out := []
if __phase == "events" {
	__out = events(__tick, __signal)
}
`

// Runtime is a compiled scenario script.
type Runtime struct {
	name         string
	compiled     *tengo.Compiled
	participants []string
}

// Load compiles the named scenario from the configs scenario set.
func Load(name string) (*Runtime, error) {
	src, err := configs.LoadScenario(name)
	if err != nil {
		return nil, fmt.Errorf("scenario: load %s: %w", name, err)
	}
	rt, err := New(src)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", name, err)
	}
	rt.name = name
	return rt, nil
}

// New compiles a scenario from source.
func New(src []byte) (*Runtime, error) {
	script := tengo.NewScript(append(append([]byte(nil), src...), []byte("\n"+dispatchScript)...))
	_ = script.Add("__phase", "")
	_ = script.Add("__tick", 0)
	_ = script.Add("__signal", 0.0)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile: %w", err)
	}

	rt := &Runtime{compiled: compiled}

	// Resolve the roster from the script global `participants` without
	// invoking the events function.
	if err := rt.run("noop", 0, 0); err != nil {
		return nil, err
	}
	if rt.compiled.IsDefined("participants") {
		for _, v := range rt.compiled.Get("participants").Array() {
			id := strings.TrimSpace(fmt.Sprint(v))
			if id != "" {
				rt.participants = append(rt.participants, id)
			}
		}
	}
	return rt, nil
}

// Participants returns the roster declared by the script.
func (r *Runtime) Participants() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.participants...)
}

// Events invokes the script for one tick and converts its output into
// gameplay events. Timestamps are left zero for the caller to stamp.
func (r *Runtime) Events(tick int, signal float64) ([]director.GameplayEvent, error) {
	if r == nil || r.compiled == nil {
		return nil, fmt.Errorf("scenario: runtime not compiled")
	}
	if err := r.run("events", tick, signal); err != nil {
		return nil, err
	}

	raw := r.compiled.Get("__out").Array()
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]director.GameplayEvent, 0, len(raw))
	for i, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("scenario: tick %d entry %d: not a map", tick, i)
		}
		participant, err := entryField(entry, "participant")
		if err != nil {
			return nil, fmt.Errorf("scenario: tick %d entry %d: %w", tick, i, err)
		}
		typeField, err := entryField(entry, "type")
		if err != nil {
			return nil, fmt.Errorf("scenario: tick %d entry %d: %w", tick, i, err)
		}
		evType := director.EventType(typeField)
		if !director.KnownEventType(evType) {
			return nil, fmt.Errorf("scenario: tick %d entry %d: unknown event type %q", tick, i, evType)
		}
		out = append(out, director.GameplayEvent{Participant: participant, Type: evType})
	}
	return out, nil
}

// entryField reads a required string field from a script output entry. A nil
// or absent value must not fall through as the literal "<nil>".
func entryField(entry map[string]any, key string) (string, error) {
	v, ok := entry[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing %s", key)
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return "", fmt.Errorf("missing %s", key)
	}
	return s, nil
}

func (r *Runtime) run(phase string, tick int, signal float64) error {
	if err := r.compiled.Set("__phase", phase); err != nil {
		return fmt.Errorf("scenario: set phase: %w", err)
	}
	if err := r.compiled.Set("__tick", tick); err != nil {
		return fmt.Errorf("scenario: set tick: %w", err)
	}
	if err := r.compiled.Set("__signal", signal); err != nil {
		return fmt.Errorf("scenario: set signal: %w", err)
	}
	if err := r.compiled.Run(); err != nil {
		return fmt.Errorf("scenario: run %s: %w", phase, err)
	}
	return nil
}
