package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidState reports a caller-supplied state that does not belong to
// the engine's scenario.
var ErrInvalidState = errors.New("invalid game state")

// Engine applies the rules of one scenario. It holds no session data and
// is safe for concurrent use.
type Engine struct {
	scenario   *Scenario
	rules      *Rules
	scorer     *Scorer
	classifier *Classifier
}

// NewEngine binds rules to a loaded scenario. Nil rules mean DefaultRules.
func NewEngine(s *Scenario, rules *Rules) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{
		scenario:   s,
		rules:      rules,
		scorer:     NewScorer(rules.Lexicons),
		classifier: NewClassifier(rules.Prefixes),
	}
}

func (e *Engine) Scenario() *Scenario { return e.scenario }

func (e *Engine) Truth() CrimeTruth { return e.scenario.Truth }

func (e *Engine) Messages() Messages { return e.rules.Messages }

// InitialState builds a fresh session with every character at its
// scenario defaults, meters clamped and breaking flags recomputed.
func (e *Engine) InitialState() *State {
	chars := make(map[string]Character, len(e.scenario.Characters))
	for _, c := range e.scenario.Characters {
		c.Pressure = clampMeter(c.Pressure)
		c.Patience = clampMeter(c.Patience)
		c.IsBreaking = c.Pressure > e.rules.BreakingThreshold
		chars[c.ID] = c
	}
	return &State{
		CurrentScenarioID: e.scenario.ID,
		DiscoveredFactIDs: []string{},
		Characters:        chars,
	}
}

// CheckState verifies that a state sent back by a caller belongs to this
// scenario and returns a copy with meters clamped and breaking flags
// recomputed. The input is not modified.
func (e *Engine) CheckState(state *State) (*State, error) {
	if state.CurrentScenarioID != e.scenario.ID {
		return nil, fmt.Errorf("%w: scenario %q, expected %q", ErrInvalidState, state.CurrentScenarioID, e.scenario.ID)
	}
	if state.TurnCount < 0 {
		return nil, fmt.Errorf("%w: negative turn count %d", ErrInvalidState, state.TurnCount)
	}
	next := state.Clone()
	for id, c := range next.Characters {
		if _, ok := e.scenario.Character(id); !ok || c.ID != id {
			return nil, fmt.Errorf("%w: character %q is not in scenario %q", ErrInvalidState, id, e.scenario.ID)
		}
		c.Pressure = clampMeter(c.Pressure)
		c.Patience = clampMeter(c.Patience)
		c.IsBreaking = c.Pressure > e.rules.BreakingThreshold
		next.Characters[id] = c
	}
	return next, nil
}

// ApplyTurn scores input against the lexicons and applies the result to
// characterID. The input state is never modified. An unknown character
// returns state itself.
func (e *Engine) ApplyTurn(state *State, characterID, input string) *State {
	c, ok := state.Characters[characterID]
	if !ok {
		return state
	}
	dPressure, dPatience := e.scorer.Score(input)
	c.Pressure = clampMeter(c.Pressure + dPressure)
	c.Patience = clampMeter(c.Patience + dPatience)
	c.IsBreaking = c.Pressure > e.rules.BreakingThreshold

	next := state.Clone()
	next.Characters[characterID] = c
	next.TurnCount++
	return next
}

// Classify reports whether input is an interrogation, a meta command or a
// free-text accusation.
func (e *Engine) Classify(input string) InputKind {
	return e.classifier.Classify(input)
}

// AccusedFromText resolves the target of a free-text accusation. The text
// after the marker may name a character by id or by name; otherwise
// fallbackID is accused.
func (e *Engine) AccusedFromText(input, fallbackID string) string {
	arg, ok := e.classifier.AccusationArgument(input)
	if !ok || arg == "" {
		return fallbackID
	}
	for _, c := range e.scenario.Characters {
		if strings.EqualFold(arg, c.ID) || arg == c.Name {
			return c.ID
		}
	}
	return fallbackID
}

// Verify checks an accusation against the scenario truth.
func (e *Engine) Verify(accusedID string) Verdict {
	return Verify(e.scenario.Truth, accusedID, e.rules.Messages)
}

// Accuse returns a terminal copy of state carrying the verdict.
func (e *Engine) Accuse(state *State, accusedID string) (*State, Verdict) {
	v := e.Verify(accusedID)
	next := state.Clone()
	next.IsGameOver = true
	next.GameResult = v.Result()
	return next, v
}
