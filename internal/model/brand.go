package model

// Brand is a sponsor whose mini-games award points
type Brand struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Missions []Mission `json:"missions,omitempty"`
}

// Mission is a daily task attached to a brand
type Mission struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Points int64  `json:"points"`
}
