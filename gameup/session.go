package gameup

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/tidwall/gjson"

	gameuphttp "github.com/gameup-io/gameup-go/http"
)

// SessionClient calls gamer endpoints with the API key and a gamer token.
// It is obtained from a Client login or from Client.Session.
type SessionClient struct {
	client *Client

	// Token identifies the gamer session.
	Token string `json:"token"`
}

// token is safe on a nil session and returns "".
func (s *SessionClient) token() string {
	if s == nil {
		return ""
	}
	return s.Token
}

// Serialize encodes the session for storage between runs.
func (s *SessionClient) Serialize() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RestoreSession decodes a session produced by Serialize.
func (c *Client) RestoreSession(data string) (*SessionClient, error) {
	token := gjson.Get(data, "token")
	if !gjson.Valid(data) || !token.Exists() {
		return nil, gameuphttp.NewValidationError("serialized session has no token", "token")
	}
	return c.Session(token.String()), nil
}

// Ping checks that the API key and gamer token are both valid.
func (s *SessionClient) Ping(ctx context.Context) error {
	return s.call(ctx, "GET", "/v0/", nil, nil)
}

// Gamer returns the gamer's profile.
func (s *SessionClient) Gamer(ctx context.Context) (*Gamer, error) {
	var gamer Gamer
	if err := s.call(ctx, "GET", "/v0/gamer", nil, &gamer); err != nil {
		return nil, err
	}
	return &gamer, nil
}

// StoragePut stores data, encoded as JSON, under key.
func (s *SessionClient) StoragePut(ctx context.Context, key string, data any) error {
	value, err := json.Marshal(data)
	if err != nil {
		return gameuphttp.NewValidationError(err.Error(), "data")
	}
	return s.StoragePutRaw(ctx, key, string(value))
}

// StoragePutRaw stores a JSON document under key as is.
func (s *SessionClient) StoragePutRaw(ctx context.Context, key, value string) error {
	return s.call(ctx, "PUT", storagePath(key), []byte(value), nil)
}

// StorageGet decodes the value stored under key into out.
func (s *SessionClient) StorageGet(ctx context.Context, key string, out any) error {
	value, err := s.StorageGetRaw(ctx, key)
	if err != nil {
		return err
	}
	return decode(value, out)
}

// StorageGetRaw returns the JSON document stored under key.
func (s *SessionClient) StorageGetRaw(ctx context.Context, key string) (string, error) {
	payload, err := s.client.do(ctx, "GET", s.client.apiURL(storagePath(key)), s.Token, nil)
	if err != nil {
		return "", err
	}

	value := gjson.Get(payload, "value")
	if !value.Exists() {
		return "", gameuphttp.NewProtocolError("storage response has no value", nil)
	}
	// values stored as JSON text come back as a string
	if value.Type == gjson.String {
		return value.String(), nil
	}
	return value.Raw, nil
}

// StorageDelete removes key.
func (s *SessionClient) StorageDelete(ctx context.Context, key string) error {
	return s.call(ctx, "DELETE", storagePath(key), nil, nil)
}

// AchievementProgress reports a single unit of progress on an achievement.
func (s *SessionClient) AchievementProgress(ctx context.Context, id string) (*Achievement, error) {
	return s.Achievement(ctx, id, 1)
}

// Achievement reports count units of progress on an achievement. It returns
// the achievement when this progress unlocked it and nil when progress was
// only recorded.
func (s *SessionClient) Achievement(ctx context.Context, id string, count int) (*Achievement, error) {
	body, err := json.Marshal(map[string]int{"count": count})
	if err != nil {
		return nil, gameuphttp.NewValidationError(err.Error(), "count")
	}

	payload, err := s.client.do(ctx, "POST", s.client.apiURL("/v0/gamer/achievement/"+url.PathEscape(id)), s.Token, body)
	if err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, nil
	}

	var achievement Achievement
	if err := decode(payload, &achievement); err != nil {
		return nil, err
	}
	return &achievement, nil
}

// Achievements lists the game's achievements with the gamer's progress.
func (s *SessionClient) Achievements(ctx context.Context) (*AchievementList, error) {
	var list AchievementList
	if err := s.call(ctx, "GET", "/v0/gamer/achievement", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateLeaderboard submits a score. The service keeps it only if it beats
// the gamer's previous score under the board's sort order.
func (s *SessionClient) UpdateLeaderboard(ctx context.Context, id string, score int64) (*Rank, error) {
	body, err := json.Marshal(map[string]int64{"score": score})
	if err != nil {
		return nil, gameuphttp.NewValidationError(err.Error(), "score")
	}

	var rank Rank
	if err := s.call(ctx, "POST", "/v0/gamer/leaderboard/"+url.PathEscape(id), body, &rank); err != nil {
		return nil, err
	}
	return &rank, nil
}

// LeaderboardAndRank returns a leaderboard together with the gamer's rank.
func (s *SessionClient) LeaderboardAndRank(ctx context.Context, id string) (*LeaderboardAndRank, error) {
	var result LeaderboardAndRank
	if err := s.call(ctx, "GET", "/v0/gamer/leaderboard/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *SessionClient) call(ctx context.Context, method, path string, body []byte, out any) error {
	return s.client.call(ctx, method, s.client.apiURL(path), s.Token, body, out)
}

// encodeBody marshals a request body. Failures are reported against field.
func encodeBody(v any, field string) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, gameuphttp.NewValidationError(err.Error(), field)
	}
	return body, nil
}

func storagePath(key string) string {
	return "/v0/gamer/storage/" + url.PathEscape(key)
}
