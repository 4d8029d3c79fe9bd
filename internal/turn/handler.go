// Package turn runs one request of the interrogation protocol: bootstrap,
// accusation or interrogation, against a game state supplied by the caller.
package turn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"interrogation/internal/game"
	"interrogation/internal/metrics"
	"interrogation/internal/narrative"
	"interrogation/internal/scenario"
)

// InitMessage asks for a session without playing a turn.
const InitMessage = "INIT"

type Action string

const (
	ActionInterrogate Action = "interrogate"
	ActionAccuse      Action = "accuse"
)

// Request is one turn as sent by a client. GameState is nil on the first
// call.
type Request struct {
	Message     string      `json:"message"`
	CharacterID string      `json:"characterId"`
	GameState   *game.State `json:"gameState"`
	APIKey      string      `json:"apiKey"`
	Action      Action      `json:"action,omitempty" validate:"omitempty,oneof=interrogate accuse"`
}

type Response struct {
	Response   string      `json:"response"`
	GameState  *game.State `json:"gameState"`
	IsGameOver bool        `json:"isGameOver,omitempty"`
}

var validate = validator.New()

// Handler is stateless between calls. The only blocking step is the call
// to the generator.
type Handler struct {
	store      scenario.Store
	scenarioID string
	rules      *game.Rules
	generator  narrative.Generator
	metrics    *metrics.Metrics
	logger     *slog.Logger

	mu     sync.Mutex
	engine *game.Engine
}

type Option func(*Handler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

func NewHandler(store scenario.Store, scenarioID string, rules *game.Rules, generator narrative.Generator, opts ...Option) *Handler {
	if rules == nil {
		rules = game.DefaultRules()
	}
	h := &Handler{
		store:      store,
		scenarioID: scenarioID,
		rules:      rules,
		generator:  generator,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Engine loads the configured scenario and binds the rules to it. The engine
// is reused while the store keeps returning the same scenario.
func (h *Handler) Engine(ctx context.Context) (*game.Engine, error) {
	s, err := h.store.Load(ctx, h.scenarioID)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.engine == nil || h.engine.Scenario() != s {
		h.engine = game.NewEngine(s, h.rules)
	}
	return h.engine, nil
}

// Handle processes one request. Errors wrap the package sentinels,
// game.ErrInvalidState, scenario.ErrScenarioNotFound, scenario.ErrInvalidScenario or ErrInternal.
// A failed generation is not an error: the reply becomes the configured
// unavailable text.
func (h *Handler) Handle(ctx context.Context, req Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("turn panicked", "panic", r)
			resp, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if req.APIKey == "" {
		return nil, ErrMissingCredential
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}
	action := req.Action
	if action == "" {
		action = ActionInterrogate
	}
	if action == ActionInterrogate && req.Message == "" {
		return nil, ErrMissingMessage
	}

	engine, err := h.Engine(ctx)
	if err != nil {
		return nil, err
	}
	msgs := engine.Messages()

	state := req.GameState
	if state == nil {
		state = engine.InitialState()
	} else if state, err = engine.CheckState(state); err != nil {
		return nil, err
	}
	if req.Message == InitMessage {
		h.metrics.Turn("init")
		return &Response{Response: msgs.Ready, GameState: state}, nil
	}
	if state.IsGameOver {
		h.metrics.Turn("game_over")
		return &Response{Response: msgs.GameOver, GameState: state, IsGameOver: true}, nil
	}

	accusedID := req.CharacterID
	if action == ActionInterrogate && engine.Classify(req.Message) == game.KindAccusation {
		action = ActionAccuse
		accusedID = engine.AccusedFromText(req.Message, req.CharacterID)
	}
	if action == ActionAccuse {
		return h.accuse(engine, state, accusedID), nil
	}
	return h.interrogate(ctx, engine, state, req)
}

func (h *Handler) accuse(engine *game.Engine, state *game.State, accusedID string) *Response {
	next, verdict := engine.Accuse(state, accusedID)
	h.metrics.Turn("accusation")
	h.metrics.Verdict(string(next.GameResult))
	h.logger.Info("accusation resolved", "accused", accusedID, "result", next.GameResult, "turns", next.TurnCount)
	return &Response{Response: verdict.Message, GameState: next, IsGameOver: true}
}

func (h *Handler) interrogate(ctx context.Context, engine *game.Engine, state *game.State, req Request) (*Response, error) {
	msgs := engine.Messages()
	next := engine.ApplyTurn(state, req.CharacterID, req.Message)

	if engine.Classify(req.Message) == game.KindMeta {
		h.metrics.Turn("meta")
		return &Response{Response: msgs.Meta, GameState: next}, nil
	}

	character, ok := next.Characters[req.CharacterID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCharacterNotFound, req.CharacterID)
	}
	h.metrics.Turn("interrogation")

	start := time.Now()
	reply, err := h.generator.Generate(ctx, req.APIKey, narrative.Request{
		Character: character,
		Truth:     engine.Truth(),
		Message:   req.Message,
	})
	h.metrics.ObserveGeneration(h.generationMode(req.APIKey), time.Since(start).Seconds())
	switch {
	case errors.Is(err, narrative.ErrServiceUnavailable):
		h.metrics.GenerationFailed()
		h.logger.Warn("narrative generation failed", "character", character.ID, "error", err)
		reply = msgs.ServiceUnavailable
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	case reply == "":
		reply = msgs.EmptyReply
	}

	h.logger.Debug("turn processed",
		"character", character.ID,
		"turn", next.TurnCount,
		"pressure", character.Pressure,
		"patience", character.Patience,
		"breaking", character.IsBreaking,
	)
	return &Response{Response: reply, GameState: next}, nil
}

func (h *Handler) generationMode(credential string) string {
	if b, ok := h.generator.(interface{ IsBypass(string) bool }); ok && b.IsBypass(credential) {
		return "bypass"
	}
	return "live"
}
