// Package schedulescript parses event schedules written as short scripts:
//
//	at 12 toggle_rain; at 18 spawn_obstacles, spawn_enemy
//	# comments run to end of line
//
// The single word "none" declares an empty schedule.
package schedulescript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"promptworld/internal/domain/schedule"
	"promptworld/internal/domain/world"
)

var ErrEmptyScript = errors.New("schedule script is empty")

type Script struct {
	None    bool     `  @"none" ";"?`
	Entries []*Entry `| ( @@ ";"? )+`
}

// Entry: at <tick> <kind> [, <kind>]*
type Entry struct {
	Pos   lexer.Position
	Tick  int      `"at" @Int`
	Kinds []string `@Ident ( "," @Ident )*`
}

var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[;,]`},
})

var scriptParser = participle.MustBuild[Script](
	participle.Lexer(scriptLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.CaseInsensitive("Ident"),
)

type Parser struct{}

func NewParser() Parser {
	return Parser{}
}

// Parse returns the events in script order. "none" yields an empty, non-nil
// slice so callers can tell it apart from "no script".
func (Parser) Parse(src string) ([]schedule.Event, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptyScript
	}
	script, err := scriptParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	events := []schedule.Event{}
	if script.None {
		return events, nil
	}
	for _, entry := range script.Entries {
		for _, k := range entry.Kinds {
			kind, err := world.ParseEventKind(strings.ToLower(k))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", entry.Pos, err)
			}
			events = append(events, schedule.Event{Tick: entry.Tick, Kind: kind})
		}
	}
	return events, nil
}

// Format renders events back into script form.
func Format(events []schedule.Event) string {
	if len(events) == 0 {
		return "none"
	}
	var b strings.Builder
	for i := 0; i < len(events); {
		j := i
		kinds := []string{}
		for j < len(events) && events[j].Tick == events[i].Tick {
			kinds = append(kinds, string(events[j].Kind))
			j++
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "at %d %s", events[i].Tick, strings.Join(kinds, ", "))
		i = j
	}
	return b.String()
}
