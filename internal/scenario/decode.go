package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"interrogation/internal/game"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Format is the encoding of a scenario document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Decode parses and validates a scenario document. The document id, when
// present, must match id; when absent id is used.
func Decode(id string, data []byte, format Format) (*game.Scenario, error) {
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScenario, id, err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScenario, id, err)
		}
		data = converted
	}

	var s game.Scenario
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScenario, id, err)
	}
	if s.ID == "" {
		s.ID = id
	} else if s.ID != id {
		return nil, fmt.Errorf("%w: document id %q does not match %q", ErrInvalidScenario, s.ID, id)
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks field constraints and the relations between the truth
// and the roster.
func Validate(s *game.Scenario) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidScenario, s.ID, err)
	}

	var problems []string
	seen := make(map[string]bool, len(s.Characters))
	murderers := 0
	for _, c := range s.Characters {
		if seen[c.ID] {
			problems = append(problems, fmt.Sprintf("duplicate character id %q", c.ID))
		}
		seen[c.ID] = true
		if c.IsMurderer {
			murderers++
			if c.ID != s.Truth.MurdererID {
				problems = append(problems, fmt.Sprintf("character %q is flagged as murderer but truth names %q", c.ID, s.Truth.MurdererID))
			}
		}
	}
	if !seen[s.Truth.MurdererID] {
		problems = append(problems, fmt.Sprintf("murdererId %q is not a character", s.Truth.MurdererID))
	}
	if murderers != 1 {
		problems = append(problems, fmt.Sprintf("expected exactly one murderer, found %d", murderers))
	}
	for _, ev := range s.Truth.Timeline {
		for _, w := range ev.Witnesses {
			if !seen[w] {
				problems = append(problems, fmt.Sprintf("timeline witness %q is not a character", w))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrInvalidScenario, s.ID, strings.Join(problems, "; "))
	}
	return nil
}
