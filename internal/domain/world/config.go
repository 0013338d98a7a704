package world

import (
	"errors"
	"fmt"
)

type Side string

const (
	SideWest Side = "west"
	SideEast Side = "east"
)

func (s Side) Opposite() Side {
	if s == SideEast {
		return SideWest
	}
	return SideEast
}

const DefaultSeed int64 = 42

// MaxSide bounds both grid dimensions.
const MaxSide = 256

var ErrInvalidConfig = errors.New("invalid world config")

// Config is the generation record produced by the prompt parser.
type Config struct {
	Width           int     `json:"width" yaml:"width"`
	Height          int     `json:"height" yaml:"height"`
	River           bool    `json:"river" yaml:"river"`
	Rocks           bool    `json:"rocks" yaml:"rocks"`
	Lava            bool    `json:"lava" yaml:"lava"`
	Sand            bool    `json:"sand" yaml:"sand"`
	Rain            bool    `json:"rain" yaml:"rain"`
	StartSide       Side    `json:"start_side" yaml:"start_side"`
	GoalSide        Side    `json:"goal_side" yaml:"goal_side"`
	ObstacleDensity float64 `json:"obstacle_density" yaml:"obstacle_density"`
	Enemy           bool    `json:"enemy" yaml:"enemy"`
	Seed            int64   `json:"seed" yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Width:           24,
		Height:          16,
		StartSide:       SideWest,
		GoalSide:        SideEast,
		ObstacleDensity: 0.12,
		Seed:            DefaultSeed,
	}
}

// Normalize fills unset sides and forces the goal onto the side opposite the start.
func (c Config) Normalize() Config {
	if c.StartSide == "" {
		c.StartSide = SideWest
	}
	c.GoalSide = c.StartSide.Opposite()
	return c
}

func (c Config) Validate() error {
	if c.Width < 3 || c.Width > MaxSide {
		return fmt.Errorf("%w: width %d outside [3,%d]", ErrInvalidConfig, c.Width, MaxSide)
	}
	if c.Height < 1 || c.Height > MaxSide {
		return fmt.Errorf("%w: height %d outside [1,%d]", ErrInvalidConfig, c.Height, MaxSide)
	}
	if c.ObstacleDensity < 0 || c.ObstacleDensity > 1 {
		return fmt.Errorf("%w: obstacle density %v outside [0,1]", ErrInvalidConfig, c.ObstacleDensity)
	}
	if c.StartSide != SideWest && c.StartSide != SideEast {
		return fmt.Errorf("%w: start side %q", ErrInvalidConfig, c.StartSide)
	}
	if c.GoalSide != "" && c.GoalSide != SideWest && c.GoalSide != SideEast {
		return fmt.Errorf("%w: goal side %q", ErrInvalidConfig, c.GoalSide)
	}
	return nil
}

func sideColumn(s Side, width int) int {
	if s == SideEast {
		return width - 2
	}
	return 1
}
