package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Lexicon is a named list of trigger terms and the deltas applied when any
// of them appears in a message.
type Lexicon struct {
	Name     string   `yaml:"name"`
	Terms    []string `yaml:"terms"`
	Pressure int      `yaml:"pressure"`
	Patience int      `yaml:"patience"`
}

// Prefixes maps input categories to the markers that select them.
type Prefixes struct {
	Accusation []string `yaml:"accusation"`
	Meta       []string `yaml:"meta"`
}

// Messages are the fixed texts the game answers with.
type Messages struct {
	VerdictCorrect     string `yaml:"verdictCorrect"`
	VerdictWrong       string `yaml:"verdictWrong"`
	Ready              string `yaml:"ready"`
	Meta               string `yaml:"meta"`
	ServiceUnavailable string `yaml:"serviceUnavailable"`
	GameOver           string `yaml:"gameOver"`
	EmptyReply         string `yaml:"emptyReply"`
}

// Rules is the tunable part of the game.
type Rules struct {
	Lexicons          []Lexicon `yaml:"lexicons"`
	BreakingThreshold int       `yaml:"breakingThreshold"`
	Prefixes          Prefixes  `yaml:"prefixes"`
	Messages          Messages  `yaml:"messages"`
}

// DefaultRules returns the built-in rules.
func DefaultRules() *Rules {
	var r Rules
	if err := yaml.Unmarshal(defaultRules, &r); err != nil {
		panic(fmt.Sprintf("game: embedded rules are invalid: %v", err))
	}
	return &r
}

// LoadRules reads a rules file. An empty path yields the defaults.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes a YAML rules document. Fields left out of the
// document keep their default values.
func ParseRules(data []byte) (*Rules, error) {
	r := DefaultRules()
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rules) validate() error {
	if r.BreakingThreshold < 0 || r.BreakingThreshold > maxMeter {
		return fmt.Errorf("rules: breaking threshold %d out of range", r.BreakingThreshold)
	}
	if len(r.Prefixes.Accusation) == 0 || len(r.Prefixes.Meta) == 0 {
		return errors.New("rules: accusation and meta prefixes are required")
	}
	for _, l := range r.Lexicons {
		if len(l.Terms) == 0 {
			return fmt.Errorf("rules: lexicon %q has no terms", l.Name)
		}
	}
	return nil
}
