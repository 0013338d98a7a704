package schedulescript

import (
	"errors"
	"testing"

	"promptworld/internal/domain/schedule"
	"promptworld/internal/domain/world"
)

func TestParse_EntriesInScriptOrder(t *testing.T) {
	events, err := NewParser().Parse("at 12 toggle_rain; at 18 spawn_obstacles, spawn_enemy")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []schedule.Event{
		{Tick: 12, Kind: world.EventToggleRain},
		{Tick: 18, Kind: world.EventSpawnObstacles},
		{Tick: 18, Kind: world.EventSpawnEnemy},
	}
	if len(events) != len(want) {
		t.Fatalf("unexpected events: got=%v want=%v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: got=%v want=%v", i, events[i], want[i])
		}
	}
}

func TestParse_CommentsNewlinesAndCase(t *testing.T) {
	src := `
# storm rolls in
AT 3 Toggle_Rain
at 0 spawn_enemy;
`
	events, err := NewParser().Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(events) != 2 || events[0].Kind != world.EventToggleRain || events[1].Tick != 0 {
		t.Fatalf("unexpected events: %v", events)
	}
}

func TestParse_None(t *testing.T) {
	events, err := NewParser().Parse("none")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Fatalf("expected empty non-nil schedule, got %#v", events)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := NewParser().Parse("   "); !errors.Is(err, ErrEmptyScript) {
		t.Fatalf("expected empty script error, got %v", err)
	}
	if _, err := NewParser().Parse("at 4 earthquake"); !errors.Is(err, world.ErrUnknownEvent) {
		t.Fatalf("expected unknown event error, got %v", err)
	}
	for _, src := range []string{"at toggle_rain", "at -1 toggle_rain", "toggle_rain at 3", "at 3"} {
		if _, err := NewParser().Parse(src); err == nil {
			t.Fatalf("expected syntax error for %q", src)
		}
	}
}

func TestFormat_RoundTrips(t *testing.T) {
	src := "at 12 toggle_rain; at 18 spawn_obstacles, spawn_enemy"
	events, err := NewParser().Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := Format(events); got != src {
		t.Fatalf("format: got=%q want=%q", got, src)
	}
	if got := Format(nil); got != "none" {
		t.Fatalf("format empty: got=%q", got)
	}
}
