package models

// PlayerContext identifies the player whose historical statistics are being
// analyzed, along with the roster metadata needed by data feeds.
type PlayerContext struct {
	PlayerID string `json:"player_id" validate:"required"`
	Name     string `json:"name"`
	TeamID   string `json:"team_id"`
	Position string `json:"position"`
}
