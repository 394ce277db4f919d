package gameup

import (
	"context"
	"net/url"
	"strconv"
)

// Matches lists the matches the gamer is part of.
func (s *SessionClient) Matches(ctx context.Context) (*MatchList, error) {
	var list MatchList
	if err := s.call(ctx, "GET", "/v0/gamer/match", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Match returns the status of one match.
func (s *SessionClient) Match(ctx context.Context, matchID string) (*Match, error) {
	var match Match
	if err := s.call(ctx, "GET", matchPath(matchID), nil, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// MatchTurns returns the turns played after turn number since. Pass 0 for
// every turn of the match.
func (s *SessionClient) MatchTurns(ctx context.Context, matchID string, since int) (*MatchTurnList, error) {
	var list MatchTurnList
	if err := s.call(ctx, "GET", matchPath(matchID)+"/turn/"+strconv.Itoa(since), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SubmitTurn plays a turn. lastTurn is the last turn number the gamer saw and
// is checked by the service for consistency; nextGamer receives the turn.
func (s *SessionClient) SubmitTurn(ctx context.Context, matchID string, lastTurn int, nextGamer, data string) error {
	body, err := encodeBody(struct {
		LastTurn  int    `json:"last_turn"`
		NextGamer string `json:"next_gamer"`
		Data      string `json:"data"`
	}{lastTurn, nextGamer, data}, "data")
	if err != nil {
		return err
	}
	return s.call(ctx, "POST", matchPath(matchID)+"/turn", body, nil)
}

// CreateMatch asks for a match of players gamers. When not enough gamers are
// waiting the gamer is queued instead and the returned match is nil.
func (s *SessionClient) CreateMatch(ctx context.Context, players int) (*Match, error) {
	body, err := encodeBody(map[string]int{"players": players}, "players")
	if err != nil {
		return nil, err
	}

	payload, err := s.client.do(ctx, "POST", s.client.apiURL("/v0/gamer/match/"), s.Token, body)
	if err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, nil
	}

	var match Match
	if err := decode(payload, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// EndMatch ends a match. Only the gamer whose turn it is may end it.
func (s *SessionClient) EndMatch(ctx context.Context, matchID string) error {
	return s.matchAction(ctx, matchID, "end")
}

// LeaveMatch leaves a match. Only allowed while it is another gamer's turn.
func (s *SessionClient) LeaveMatch(ctx context.Context, matchID string) error {
	return s.matchAction(ctx, matchID, "leave")
}

func (s *SessionClient) matchAction(ctx context.Context, matchID, action string) error {
	body, err := encodeBody(map[string]string{"action": action}, "action")
	if err != nil {
		return err
	}
	return s.call(ctx, "POST", matchPath(matchID), body, nil)
}

func matchPath(matchID string) string {
	return "/v0/gamer/match/" + url.PathEscape(matchID)
}
