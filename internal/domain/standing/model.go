package standing

// TeamStanding is one row of the league table.
type TeamStanding struct {
	Position int
	TeamID   string
	Played   int
	Wins     int
	Losses   int
	Draws    int
	Points   int
}

// PlayerStanding is one row of the player leaderboard.
type PlayerStanding struct {
	Position   int
	PlayerID   string
	TeamID     string
	Wins       int
	Losses     int
	WinPercent float64
}

func (p PlayerStanding) Games() int {
	return p.Wins + p.Losses
}

// Table bundles both rankings computed from the same snapshot.
type Table struct {
	Teams   []TeamStanding
	Players []PlayerStanding
}
