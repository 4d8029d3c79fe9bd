// Package narrative builds the in-character prompt for a suspect and sends
// it to a text generation service.
package narrative

import (
	"context"
	"errors"

	"interrogation/internal/game"
)

// ErrServiceUnavailable wraps every failure to obtain a reply from the
// generation service.
var ErrServiceUnavailable = errors.New("narrative service unavailable")

// Request is everything a character may draw on when answering.
type Request struct {
	Character game.Character
	Truth     game.CrimeTruth
	Message   string
}

// Generator produces an in-character reply. The credential is the key the
// player supplied for the upstream service.
type Generator interface {
	Generate(ctx context.Context, credential string, req Request) (string, error)
}

// Switch routes the bypass credential to a canned generator and every
// other credential to the live one.
type Switch struct {
	BypassCredential string
	Bypass           Generator
	Live             Generator
}

func (s *Switch) Generate(ctx context.Context, credential string, req Request) (string, error) {
	if s.BypassCredential != "" && credential == s.BypassCredential {
		return s.Bypass.Generate(ctx, credential, req)
	}
	return s.Live.Generate(ctx, credential, req)
}

// IsBypass reports whether credential selects the canned generator.
func (s *Switch) IsBypass(credential string) bool {
	return s.BypassCredential != "" && credential == s.BypassCredential
}
