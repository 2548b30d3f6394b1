package request

// AddPointsRequest is the request body for crediting points
type AddPointsRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// RecordPlayRequest is the request body for charging a game play
type RecordPlayRequest struct {
	GameType string `json:"game_type"`
	BrandID  string `json:"brand_id,omitempty"`
}

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
