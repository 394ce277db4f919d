package gameup

// PingInfo is the server status returned by Client.Server.
type PingInfo struct {
	// Time is the server clock in milliseconds since the epoch.
	Time int64 `json:"time"`
}

// Gamer is the profile of the logged-in gamer.
type Gamer struct {
	Nickname  string `json:"nickname"`
	Name      string `json:"name"`
	Timezone  int16  `json:"timezone"`
	Location  string `json:"location"`
	Locale    string `json:"locale"`
	CreatedAt int64  `json:"created_at"`
}

// Game describes the game the API key belongs to.
type Game struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// AchievementType is how a gamer earns an achievement.
type AchievementType string

const (
	AchievementNormal      AchievementType = "normal"
	AchievementIncremental AchievementType = "incremental"
)

// AchievementState controls how an achievement is displayed.
type AchievementState string

const (
	AchievementVisible AchievementState = "visible"
	AchievementSecret  AchievementState = "secret"
	AchievementHidden  AchievementState = "hidden"
)

// Achievement is a game achievement, with gamer progress when fetched
// through a SessionClient.
type Achievement struct {
	PublicID         string           `json:"public_id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	AchievementType  AchievementType  `json:"achievement_type"`
	Points           int              `json:"points"`
	AchievementState AchievementState `json:"achievement_state"`
	RequiredCount    int              `json:"required_count"`
	Count            int              `json:"count"`
	ProgressAt       int64            `json:"progress_at"`
	CompletedAt      int64            `json:"completed_at"`
}

// IsCompleted reports whether the gamer has completed the achievement.
func (a Achievement) IsCompleted() bool {
	return a.CompletedAt > 0
}

// AchievementList is a list of achievements.
type AchievementList struct {
	Count        int           `json:"count"`
	Achievements []Achievement `json:"achievements"`
}

// LeaderboardSort is the order entries are ranked in.
type LeaderboardSort string

const (
	SortAscending  LeaderboardSort = "asc"
	SortDescending LeaderboardSort = "desc"
)

// LeaderboardEntry is one ranked gamer.
type LeaderboardEntry struct {
	Name    string `json:"name"`
	Score   int64  `json:"score"`
	ScoreAt int64  `json:"score_at"`
}

// Leaderboard holds the top entries of a board, already sorted.
type Leaderboard struct {
	Name            string             `json:"name"`
	PublicID        string             `json:"public_id"`
	SortOrder       LeaderboardSort    `json:"sort_order"`
	LeaderboardType string             `json:"leaderboard_type"`
	Entries         []LeaderboardEntry `json:"entries"`
}

// LeaderboardList is a list of leaderboards.
type LeaderboardList struct {
	Count        int           `json:"count"`
	Leaderboards []Leaderboard `json:"leaderboards"`
}

// Rank is the gamer's standing on a leaderboard. Timestamps are
// milliseconds since the epoch.
type Rank struct {
	Name        string `json:"name"`
	Ranking     int64  `json:"rank"`
	RankAt      int64  `json:"rank_at"`
	Score       int64  `json:"score"`
	ScoreAt     int64  `json:"score_at"`
	LastScore   int64  `json:"last_score"`
	LastScoreAt int64  `json:"last_score_at"`
	LastRank    int64  `json:"last_rank"`
	LastRankAt  int64  `json:"last_rank_at"`
	BestRank    int64  `json:"best_rank"`
	BestRankAt  int64  `json:"best_rank_at"`
}

// IsNew reports whether this is the gamer's first appearance on the board.
func (r Rank) IsNew() bool {
	return r.LastRank == 0
}

// IsNewScore reports whether the latest submission is a new best score.
func (r Rank) IsNewScore() bool {
	return r.Score != r.LastScore
}

// IsNewRank reports whether the rank changed since it was last checked.
func (r Rank) IsNewRank() bool {
	return r.Ranking != r.LastRank
}

// IsNewBestRank reports whether the current rank is an all-time best.
func (r Rank) IsNewBestRank() bool {
	return r.Ranking == r.BestRank && r.RankAt == r.BestRankAt
}

// LeaderboardAndRank combines a board with the gamer's rank on it.
type LeaderboardAndRank struct {
	Rank        Rank        `json:"rank"`
	Leaderboard Leaderboard `json:"leaderboard"`
}

// Match is a turn-based match the gamer takes part in. WhoAmI is the
// gamer's nickname within the match and Turn the nickname of the gamer
// expected to play next.
type Match struct {
	WhoAmI    string   `json:"who_am_i"`
	MatchID   string   `json:"match_id"`
	TurnCount int64    `json:"turn_count"`
	Turn      string   `json:"turn"`
	Gamers    []string `json:"gamers"`
	CreatedAt int64    `json:"created_at"`
	Active    bool     `json:"active"`
}

// IsMyTurn reports whether the current gamer is the one expected to play.
func (m Match) IsMyTurn() bool {
	return m.Active && m.Turn != "" && m.Turn == m.WhoAmI
}

// MatchList is returned by SessionClient.Matches.
type MatchList struct {
	Count   int     `json:"count"`
	Matches []Match `json:"matches"`
}

// MatchTurn is one submitted turn.
type MatchTurn struct {
	Type       string `json:"type"`
	TurnNumber int    `json:"turn_number"`
	Gamer      string `json:"gamer"`
	Data       string `json:"data"`
	CreatedAt  int64  `json:"created_at"`
}

// MatchTurnList is returned by SessionClient.MatchTurns.
type MatchTurnList struct {
	Count int         `json:"count"`
	Turns []MatchTurn `json:"turns"`
}

// PushPlatform is the device family of a push subscription.
type PushPlatform string

const (
	PushIOS     PushPlatform = "ios"
	PushAndroid PushPlatform = "android"
)

// PurchaseVerification is the store's verdict on a purchase receipt.
// SeenBefore is set when the receipt was already verified once.
type PurchaseVerification struct {
	Success                   bool           `json:"success"`
	SeenBefore                bool           `json:"seen_before"`
	PurchaseProviderReachable bool           `json:"purchase_provider_reachable"`
	Message                   string         `json:"message"`
	Data                      map[string]any `json:"data"`
}
