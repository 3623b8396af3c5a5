package domain

// LeaderboardRow is one ranked player as read from storage. Wins, Losses
// and Draws reflect the requested game type filter; Rank and the win
// percentage are computed at read time by the projector.
type LeaderboardRow struct {
	UserID      int64  `json:"id"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Draws       int    `json:"draws"`
	TotalGames  int    `json:"total_games"`
	TotalPoints int    `json:"total_points"`
	Rating      int    `json:"rating"`

	// HighestRating is the final ordering tie-break after points and rating.
	HighestRating int `json:"highest_rating"`
}
