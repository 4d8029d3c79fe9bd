// Package console plays the game in a terminal against an in-process
// turn handler.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"interrogation/internal/game"
	"interrogation/internal/turn"
)

const rule = "--------------------------------------------------"

// Session holds the state a web client would keep between requests.
type Session struct {
	handler    *turn.Handler
	credential string
	out        io.Writer

	state  *game.State
	target string
	roster []game.Character
}

func NewSession(h *turn.Handler, credential string, out io.Writer) *Session {
	return &Session{handler: h, credential: credential, out: out}
}

// Run starts a case and reads commands from in until the game ends, the
// input closes or the player types /quit.
//
//	@<id> [message]   switch to a character, optionally asking something
//	/who              list the characters
//	/accuse <id>      accuse a character and end the game
//	/quit             leave
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	engine, err := s.handler.Engine(ctx)
	if err != nil {
		return err
	}
	s.roster = engine.Scenario().Characters

	resp, err := s.handler.Handle(ctx, turn.Request{Message: turn.InitMessage, APIKey: s.credential})
	if err != nil {
		return err
	}
	s.state = resp.GameState
	if len(s.roster) > 0 {
		s.target = s.roster[0].ID
	}

	victim := engine.Truth().Victim
	fmt.Fprintf(s.out, "案件: %s 死于%s，地点：%s。\n", victim.Name, victim.TimeOfDeath, victim.Location)
	s.printRoster()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(s.out, "[%s] > ", s.target)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit":
			return nil
		case line == "/who":
			s.printRoster()
			continue
		case strings.HasPrefix(line, "@"):
			id, rest, _ := strings.Cut(line[1:], " ")
			if _, ok := s.state.Characters[id]; !ok {
				fmt.Fprintf(s.out, "没有这个人: %s\n", id)
				continue
			}
			s.target = id
			line = strings.TrimSpace(rest)
			if line == "" {
				continue
			}
		}

		resp, err := s.handler.Handle(ctx, turn.Request{
			Message:     line,
			CharacterID: s.target,
			GameState:   s.state,
			APIKey:      s.credential,
		})
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		s.state = resp.GameState

		fmt.Fprintln(s.out, rule)
		fmt.Fprintln(s.out, resp.Response)
		fmt.Fprintln(s.out, rule)
		if resp.IsGameOver {
			fmt.Fprintf(s.out, "结果: %s (共 %d 轮)\n", s.state.GameResult, s.state.TurnCount)
			return nil
		}
	}
	return scanner.Err()
}

// State is the latest game state.
func (s *Session) State() *game.State { return s.state }

func (s *Session) printRoster() {
	for _, c := range s.roster {
		fmt.Fprintf(s.out, "  @%-8s %s（%s）\n", c.ID, c.Name, c.RelationToVictim)
	}
}
