package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"promptworld/internal/adapter/prompt"
	"promptworld/internal/adapter/render"
	sqliterepo "promptworld/internal/adapter/repo/sqlite"
	"promptworld/internal/adapter/schedulescript"
	"promptworld/internal/app/evaluate"
	"promptworld/internal/domain/planner"
	"promptworld/internal/domain/world"
)

var (
	stdout io.Writer = os.Stdout
	// pretty selects the human summary over json; tests override it.
	pretty = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "parse":
		return runParse(ctx, args[1:])
	case "eval":
		return runEval(ctx, args[1:])
	case "plan":
		return runPlan(ctx, args[1:])
	case "render":
		return runRender(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runParse(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	text := fs.String("prompt", "", "world description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return writeJSON(stdout, prompt.NewParser().Parse(*text), true)
}

func runEval(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	text := fs.String("prompt", "", "world description")
	trials := fs.Int("trials", evaluate.DefaultTrials, "trial count")
	script := fs.String("schedule", "", `event script, e.g. "at 12 toggle_rain; at 18 spawn_obstacles"`)
	varySeed := fs.Bool("vary-seed", false, "give trial i the seed base+i")
	seed := fs.Int64("seed", 0, "override the world seed (0 keeps the parsed seed)")
	out := fs.String("out", "metrics.json", "metrics output path (empty disables)")
	dbPath := fs.String("db-path", "", "sqlite database to record the run in (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := prompt.NewParser().Parse(*text)
	if *seed != 0 {
		cfg.Seed = *seed
	}

	uc := evaluate.UseCase{Schedules: schedulescript.NewParser()}
	if *dbPath != "" {
		store := sqliterepo.NewStore(*dbPath)
		if err := store.Init(ctx); err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()
		uc.Runs = sqliterepo.NewEvaluationRunRepo(store)
		uc.TxManager = sqliterepo.NewTxManager(store)
	}

	resp, err := uc.Execute(ctx, evaluate.Request{
		Prompt:   *text,
		Config:   &cfg,
		Trials:   *trials,
		Schedule: *script,
		VarySeed: *varySeed,
	})
	if err != nil {
		return err
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		if err := writeJSON(f, resp.Metrics, true); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if !pretty() {
		return writeJSON(stdout, resp, false)
	}
	m := resp.Metrics
	avg := "n/a"
	if m.AvgStepsSuccess != nil {
		avg = fmt.Sprintf("%.1f", *m.AvgStepsSuccess)
	}
	fmt.Fprintf(stdout, "run %s: %s trials, success %.1f%%, avg steps %s, %s failures\n",
		resp.RunID, humanize.Comma(int64(m.Trials)), m.SuccessRate*100, avg, humanize.Comma(int64(m.Failures)))
	if *out != "" {
		fmt.Fprintf(stdout, "metrics written to %s\n", *out)
	}
	return nil
}

func runPlan(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	text := fs.String("prompt", "", "world description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := world.NewRandom(prompt.NewParser().Parse(*text))
	if err != nil {
		return err
	}
	path, found := planner.Plan(w)
	actions := []world.Action{}
	if found {
		if actions, err = planner.ToActions(path); err != nil {
			return err
		}
	}

	if !pretty() {
		return writeJSON(stdout, map[string]any{
			"found":   found,
			"path":    path,
			"actions": actions,
			"world":   w.View(),
		}, false)
	}
	for _, row := range overlay(w.Rows(), path) {
		fmt.Fprintln(stdout, row)
	}
	if !found {
		fmt.Fprintln(stdout, "no path")
		return nil
	}
	fmt.Fprintf(stdout, "%s moves: %s\n", humanize.Comma(int64(len(actions))), joinActions(actions))
	return nil
}

func runRender(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	text := fs.String("prompt", "", "world description")
	scale := fs.Int("scale", render.DefaultScale, "pixels per cell")
	out := fs.String("out", "frame.png", "png output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("render needs -out")
	}

	w, err := world.NewRandom(prompt.NewParser().Parse(*text))
	if err != nil {
		return err
	}
	b, err := render.NewPNGRenderer().Render(w.View(), *scale)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%s)\n", *out, humanize.Bytes(uint64(len(b))))
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	dbPath := fs.String("db-path", "promptworld.db", "sqlite database path")
	limit := fs.Int("limit", 10, "max runs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store := sqliterepo.NewStore(*dbPath)
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	list, err := evaluate.UseCase{Runs: sqliterepo.NewEvaluationRunRepo(store)}.List(ctx, *limit)
	if err != nil {
		return err
	}
	if !pretty() {
		return writeJSON(stdout, list, false)
	}
	if len(list.Runs) == 0 {
		fmt.Fprintln(stdout, "no runs")
		return nil
	}
	for _, r := range list.Runs {
		fmt.Fprintf(stdout, "%s  %s  trials=%d success=%.2f\n",
			r.RunID, humanize.Time(r.CreatedAt), r.Metrics.Trials, r.Metrics.SuccessRate)
	}
	return nil
}

// overlay marks path cells with '*' on the tile rows, keeping the goal visible.
func overlay(rows []string, path []world.Point) []string {
	grid := make([][]byte, len(rows))
	for i, r := range rows {
		grid[i] = []byte(r)
	}
	for i, p := range path {
		if i == 0 || i == len(path)-1 {
			continue
		}
		grid[p.Y][p.X] = '*'
	}
	out := make([]string, len(grid))
	for i, r := range grid {
		out[i] = string(r)
	}
	return out
}

func joinActions(actions []world.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: worldctl <parse|eval|plan|render|runs> [flags]", msg)
}
