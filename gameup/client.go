package gameup

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/gameup-io/gameup-go/config"
	gameuphttp "github.com/gameup-io/gameup-go/http"
	"github.com/gameup-io/gameup-go/logger"
)

const (
	// DefaultAPIBaseURL serves game and gamer resources.
	DefaultAPIBaseURL = "https://api.gameup.io:443"
	// DefaultAccountsBaseURL serves logins and account management.
	DefaultAccountsBaseURL = "https://accounts.gameup.io:443"

	// DefaultLeaderboardLimit is the page size used by Client.Leaderboard.
	DefaultLeaderboardLimit = 50
)

// Client calls the endpoints that need only the API key.
type Client struct {
	apiKey          string
	apiBaseURL      string
	accountsBaseURL string
	executor        gameuphttp.Client
	logger          logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIBaseURL overrides the game API root, e.g. for a staging server.
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Client) { c.apiBaseURL = strings.TrimRight(baseURL, "/") }
}

// WithAccountsBaseURL overrides the accounts API root.
func WithAccountsBaseURL(baseURL string) Option {
	return func(c *Client) { c.accountsBaseURL = strings.TrimRight(baseURL, "/") }
}

// WithExecutor replaces the request executor.
func WithExecutor(executor gameuphttp.Client) Option {
	return func(c *Client) { c.executor = executor }
}

// WithLogger sets the logger used by the default executor.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.logger = log }
}

// New creates a client for apiKey. Without WithExecutor it uses an executor
// with default settings: no compression and no retries.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:          apiKey,
		apiBaseURL:      DefaultAPIBaseURL,
		accountsBaseURL: DefaultAccountsBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}
	if c.executor == nil {
		c.executor = gameuphttp.New(c.logger, gameuphttp.DefaultConfig())
	}
	return c
}

// NewFromConfig creates a client from loaded configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) *Client {
	log := cfg.NewLogger()
	base := []Option{
		WithAPIBaseURL(cfg.APIBaseURL()),
		WithAccountsBaseURL(cfg.AccountsBaseURL()),
		WithLogger(log),
		WithExecutor(gameuphttp.New(log, cfg.HTTPConfig())),
	}
	return New(cfg.Client.APIKey, append(base, opts...)...)
}

// APIKey returns the key sent with every request.
func (c *Client) APIKey() string { return c.apiKey }

// Ping checks that the service is reachable and the API key is valid.
func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, "GET", c.apiURL("/v0/"), "", nil, nil)
}

// Server returns the server status.
func (c *Client) Server(ctx context.Context) (*PingInfo, error) {
	var info PingInfo
	if err := c.call(ctx, "GET", c.apiURL("/v0/server"), "", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Game returns the game the API key belongs to.
func (c *Client) Game(ctx context.Context) (*Game, error) {
	var game Game
	if err := c.call(ctx, "GET", c.apiURL("/v0/game"), "", nil, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Achievements lists the game's achievements.
func (c *Client) Achievements(ctx context.Context) (*AchievementList, error) {
	var list AchievementList
	if err := c.call(ctx, "GET", c.apiURL("/v0/game/achievement"), "", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Leaderboards lists the game's leaderboards.
func (c *Client) Leaderboards(ctx context.Context) (*LeaderboardList, error) {
	var list LeaderboardList
	if err := c.call(ctx, "GET", c.apiURL("/v0/game/leaderboard"), "", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Leaderboard returns the first page of a leaderboard without score tags.
func (c *Client) Leaderboard(ctx context.Context, id string) (*Leaderboard, error) {
	return c.LeaderboardPage(ctx, id, DefaultLeaderboardLimit, 0, false)
}

// LeaderboardPage returns limit entries of a leaderboard starting at offset.
func (c *Client) LeaderboardPage(ctx context.Context, id string, limit, offset int, withScoretags bool) (*Leaderboard, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("with_scoretags", strconv.FormatBool(withScoretags))

	var board Leaderboard
	target := c.apiURL("/v0/game/leaderboard/"+url.PathEscape(id)) + "?" + query.Encode()
	if err := c.call(ctx, "GET", target, "", nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// LoginAnonymous logs in, creating the account on first use, with a
// device-unique id. Reuse the same id to return to the same account.
func (c *Client) LoginAnonymous(ctx context.Context, id string) (*SessionClient, error) {
	return c.login(ctx, "/v0/gamer/login/anonymous", "", map[string]string{"id": id})
}

// LoginGameUp logs in with a GameUp email and password. A non-nil session
// links the existing gamer to that account.
func (c *Client) LoginGameUp(ctx context.Context, email, password string, session *SessionClient) (*SessionClient, error) {
	return c.login(ctx, "/v0/gamer/login/gameup", session.token(), map[string]string{
		"email":    email,
		"password": password,
	})
}

// CreateGameUpAccount registers a GameUp account and logs in. name is
// optional.
func (c *Client) CreateGameUpAccount(ctx context.Context, email, password, confirmPassword, name string, session *SessionClient) (*SessionClient, error) {
	body := map[string]string{
		"email":            email,
		"password":         password,
		"confirm_password": confirmPassword,
	}
	if strings.TrimSpace(name) != "" {
		body["name"] = name
	}
	return c.login(ctx, "/v0/gamer/account/gameup/create", session.token(), body)
}

// ResetEmailGameUp sends a password recovery email.
func (c *Client) ResetEmailGameUp(ctx context.Context, email string) error {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return gameuphttp.NewValidationError(err.Error(), "email")
	}
	return c.call(ctx, "POST", c.accountsURL("/v0/gamer/account/gameup/reset/send"), "", body, nil)
}

// LoginOAuthFacebook logs in with a Facebook access token.
func (c *Client) LoginOAuthFacebook(ctx context.Context, accessToken string, session *SessionClient) (*SessionClient, error) {
	return c.loginOAuth(ctx, "facebook", accessToken, session)
}

// LoginOAuthGoogle logs in with a Google access token.
func (c *Client) LoginOAuthGoogle(ctx context.Context, accessToken string, session *SessionClient) (*SessionClient, error) {
	return c.loginOAuth(ctx, "google", accessToken, session)
}

func (c *Client) loginOAuth(ctx context.Context, provider, accessToken string, session *SessionClient) (*SessionClient, error) {
	return c.login(ctx, "/v0/gamer/login/oauth2", session.token(), map[string]string{
		"type":         provider,
		"access_token": accessToken,
	})
}

// MakeRequest sends an arbitrary request authenticated with the API key and
// decodes a non-empty payload into out. out may be nil.
func (c *Client) MakeRequest(ctx context.Context, method, rawURL string, body []byte, out any) error {
	return c.call(ctx, method, rawURL, "", body, out)
}

// Session rebuilds a SessionClient from a token obtained earlier.
func (c *Client) Session(token string) *SessionClient {
	return &SessionClient{client: c, Token: token}
}

func (c *Client) login(ctx context.Context, path, token string, body map[string]string) (*SessionClient, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, gameuphttp.NewValidationError(err.Error(), "body")
	}

	raw, err := c.do(ctx, "POST", c.accountsURL(path), token, payload)
	if err != nil {
		return nil, err
	}

	sessionToken := gjson.Get(raw, "token")
	if !sessionToken.Exists() || sessionToken.String() == "" {
		return nil, gameuphttp.NewProtocolError("login response has no token", nil)
	}
	return c.Session(sessionToken.String()), nil
}

func (c *Client) call(ctx context.Context, method, target, token string, body []byte, out any) error {
	payload, err := c.do(ctx, method, target, token, body)
	if err != nil {
		return err
	}
	return decode(payload, out)
}

func (c *Client) do(ctx context.Context, method, target, token string, body []byte) (string, error) {
	req := gameuphttp.NewRequest(method, target, c.apiKey, token)
	if body != nil {
		req.SetBody(body)
	}
	return c.executor.Do(ctx, req)
}

func (c *Client) apiURL(path string) string      { return c.apiBaseURL + path }
func (c *Client) accountsURL(path string) string { return c.accountsBaseURL + path }

func decode(payload string, out any) error {
	if out == nil || payload == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return gameuphttp.NewProtocolError("failed to decode response", err)
	}
	return nil
}

// Failure returns the status and reason of a failed call, the pair the
// service reported for application errors and 500 with the transport or
// protocol text otherwise.
func Failure(err error) (int, string) {
	if err == nil {
		return 0, ""
	}
	var clientErr gameuphttp.ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Code(), clientErr.Reason()
	}
	return gameuphttp.StatusNonApplication, err.Error()
}
