package scenario

import (
	"context"
	"encoding/json"
	"fmt"

	supa "github.com/supabase-community/supabase-go"

	"interrogation/internal/game"
)

// DefaultSupabaseTable holds one row per scenario: id text primary key,
// document jsonb.
const DefaultSupabaseTable = "scenarios"

// scenarioRow matches a row of the scenarios table.
type scenarioRow struct {
	ID       string          `json:"id"`
	Document json.RawMessage `json:"document"`
}

// SupabaseStore loads scenario documents authored in a Supabase table.
type SupabaseStore struct {
	client *supa.Client
	table  string
}

func NewSupabaseStore(url, key, table string) (*SupabaseStore, error) {
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to supabase: %w", err)
	}
	if table == "" {
		table = DefaultSupabaseTable
	}
	return &SupabaseStore{client: client, table: table}, nil
}

func (s *SupabaseStore) Load(_ context.Context, id string) (*game.Scenario, error) {
	var rows []scenarioRow
	_, err := s.client.From(s.table).Select("id,document", "", false).Eq("id", id).ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("query scenario %s: %w", id, err)
	}
	if len(rows) == 0 || len(rows[0].Document) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrScenarioNotFound, id)
	}
	return Decode(id, rows[0].Document, FormatJSON)
}
