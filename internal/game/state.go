// Package game holds the interrogation state machine: the case data model,
// the per-turn pressure/patience update, input classification and the
// accusation verdict.
package game

// Role is a descriptive label for a character in a case.
type Role string

const (
	RoleSuspect  Role = "suspect"
	RoleWitness  Role = "witness"
	RoleInnocent Role = "innocent"
)

// Result is the terminal outcome of a game.
type Result string

const (
	ResultWin  Result = "WIN"
	ResultLose Result = "LOSE"
)

// KnownFact is something a character knows. Secret facts are withheld
// unless the character is pressured or confronted.
type KnownFact struct {
	ID       string `json:"id" validate:"required"`
	Content  string `json:"content" validate:"required"`
	IsSecret bool   `json:"isSecret"`
}

// Character is a suspect or witness plus their live interrogation state.
type Character struct {
	ID               string      `json:"id" validate:"required"`
	Name             string      `json:"name" validate:"required"`
	Role             Role        `json:"role" validate:"required,oneof=suspect witness innocent"`
	IsMurderer       bool        `json:"isMurderer"`
	Personality      string      `json:"personality"`
	RelationToVictim string      `json:"relationToVictim"`
	Alibi            string      `json:"alibi"`
	KnownFacts       []KnownFact `json:"knownFacts" validate:"dive"`
	Pressure         int         `json:"pressure" validate:"min=0,max=100"`
	Patience         int         `json:"patience" validate:"min=0,max=100"`
	IsBreaking       bool        `json:"isBreaking"`
}

// Victim describes who died and how.
type Victim struct {
	Name         string `json:"name" validate:"required"`
	TimeOfDeath  string `json:"timeOfDeath"`
	Location     string `json:"location"`
	CauseOfDeath string `json:"causeOfDeath"`
}

// TimelineEvent is one entry of what actually happened. Witnesses are
// character ids.
type TimelineEvent struct {
	Time        string   `json:"time" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Witnesses   []string `json:"witnesses,omitempty"`
}

type EvidenceItem struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Found       bool   `json:"found"`
}

// CrimeTruth is the immutable solution of a case.
type CrimeTruth struct {
	Victim               Victim          `json:"victim"`
	MurdererID           string          `json:"murdererId" validate:"required"`
	Motive               string          `json:"motive"`
	Timeline             []TimelineEvent `json:"timeline" validate:"dive"`
	Evidence             []EvidenceItem  `json:"evidence" validate:"dive"`
	RealSequenceOfEvents string          `json:"realSequenceOfEvents"`
}

// Scenario is a loaded case definition.
type Scenario struct {
	ID         string      `json:"id" validate:"required"`
	Truth      CrimeTruth  `json:"truth"`
	Characters []Character `json:"characters" validate:"required,min=1,dive"`
}

// Character returns the scenario's default definition of id.
func (s *Scenario) Character(id string) (Character, bool) {
	for _, c := range s.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// State is the whole game session. It is handed to the caller after every
// turn and handed back on the next one; nothing is kept server side.
type State struct {
	CurrentScenarioID string               `json:"currentScenarioId"`
	TurnCount         int                  `json:"turnCount"`
	IsGameOver        bool                 `json:"isGameOver"`
	GameResult        Result               `json:"gameResult,omitempty"`
	DiscoveredFactIDs []string             `json:"discoveredFactIds"`
	Characters        map[string]Character `json:"characters"`
}

// Clone returns a copy of s whose character map can be modified without
// touching s. Fact slices are shared; nothing in the game writes to them.
func (s *State) Clone() *State {
	out := *s
	out.Characters = make(map[string]Character, len(s.Characters))
	for id, c := range s.Characters {
		out.Characters[id] = c
	}
	if s.DiscoveredFactIDs != nil {
		out.DiscoveredFactIDs = append([]string(nil), s.DiscoveredFactIDs...)
	}
	return &out
}
