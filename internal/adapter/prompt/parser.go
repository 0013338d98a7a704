// Package prompt turns a free-text world description into a world.Config
// using keyword heuristics.
package prompt

import (
	"regexp"
	"strconv"
	"strings"

	"promptworld/internal/domain/world"
)

const (
	minSide = 8
	maxSide = 64

	sparseDensity = 0.08
	denseDensity  = 0.20
)

var (
	widthPattern  = regexp.MustCompile(`width\s+(\d+)`)
	heightPattern = regexp.MustCompile(`height\s+(\d+)`)
	seedPattern   = regexp.MustCompile(`seed\s+(\d+)`)
)

type Parser struct{}

func NewParser() Parser {
	return Parser{}
}

// Parse never fails: unrecognised text yields the default config.
func (Parser) Parse(text string) world.Config {
	p := strings.ToLower(text)
	cfg := world.DefaultConfig()

	cfg.River = containsAny(p, "river", "stream", "water")
	cfg.Rocks = containsAny(p, "rock", "boulder", "mountain")
	cfg.Lava = strings.Contains(p, "lava")
	cfg.Sand = containsAny(p, "sand", "desert")
	cfg.Rain = containsAny(p, "rain", "storm", "wet", "weather")
	cfg.Enemy = containsAny(p, "enemy", "monster", "agent")

	switch {
	case strings.Contains(p, "west"):
		cfg.StartSide = world.SideWest
	case strings.Contains(p, "east"):
		cfg.StartSide = world.SideEast
	}

	switch {
	case strings.Contains(p, "sparse"):
		cfg.ObstacleDensity = sparseDensity
	case strings.Contains(p, "dense"):
		cfg.ObstacleDensity = denseDensity
	}

	if n, ok := match(widthPattern, p); ok {
		cfg.Width = clamp(n, minSide, maxSide)
	}
	if n, ok := match(heightPattern, p); ok {
		cfg.Height = clamp(n, minSide, maxSide)
	}
	if n, ok := match(seedPattern, p); ok {
		cfg.Seed = int64(n)
	}
	return cfg.Normalize()
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func match(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// digits overflowing int clamp to the upper bound
		return maxSide, true
	}
	return n, true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
