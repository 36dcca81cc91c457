package scoring

import (
	"sort"

	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	"github.com/riskibarqy/community-league/internal/domain/player"
	"github.com/riskibarqy/community-league/internal/domain/standing"
	"github.com/riskibarqy/community-league/internal/domain/team"
)

const (
	PointsForWin  = 3
	PointsForDraw = 1
	PointsForLoss = 0
)

// ProjectionInput is the snapshot the projector folds. Results that are not
// approved are ignored; the projector does not deduplicate them.
type ProjectionInput struct {
	Teams   []team.Team
	Players []player.Player
	Results []matchresult.MatchResult
}

type ProjectionOptions struct {
	// SkipUndecidedLines leaves lines with equal set counts out of the player
	// leaderboard instead of crediting the home side.
	SkipUndecidedLines bool
}

// ProjectStandings recomputes the team table and player leaderboard from scratch.
func ProjectStandings(input ProjectionInput, opts ProjectionOptions) standing.Table {
	teamRows := make(map[string]*standing.TeamStanding, len(input.Teams))
	teamOrder := make([]string, 0, len(input.Teams))
	teamRow := func(teamID string) *standing.TeamStanding {
		row, ok := teamRows[teamID]
		if !ok {
			row = &standing.TeamStanding{TeamID: teamID}
			teamRows[teamID] = row
			teamOrder = append(teamOrder, teamID)
		}
		return row
	}
	for _, t := range input.Teams {
		teamRow(t.ID)
	}

	teamByPlayer := make(map[string]string, len(input.Players))
	for _, p := range input.Players {
		teamByPlayer[p.ID] = p.TeamID
	}
	playerRows := make(map[string]*standing.PlayerStanding)
	playerRow := func(playerID, fallbackTeamID string) *standing.PlayerStanding {
		row, ok := playerRows[playerID]
		if !ok {
			teamID, known := teamByPlayer[playerID]
			if !known {
				teamID = fallbackTeamID
			}
			row = &standing.PlayerStanding{PlayerID: playerID, TeamID: teamID}
			playerRows[playerID] = row
		}
		return row
	}

	for _, result := range input.Results {
		if !result.IsApproved() {
			continue
		}

		home := teamRow(result.HomeTeamID)
		away := teamRow(result.AwayTeamID)
		home.Played++
		away.Played++
		switch {
		case result.HomeTotalScore > result.AwayTotalScore:
			home.Wins++
			home.Points += PointsForWin
			away.Losses++
			away.Points += PointsForLoss
		case result.AwayTotalScore > result.HomeTotalScore:
			away.Wins++
			away.Points += PointsForWin
			home.Losses++
			home.Points += PointsForLoss
		default:
			home.Draws++
			away.Draws++
			home.Points += PointsForDraw
			away.Points += PointsForDraw
		}

		for _, line := range result.Lines {
			if opts.SkipUndecidedLines && !line.Decided {
				continue
			}
			winner := line.Winner
			if winner != matchresult.SideAway {
				winner = matchresult.SideHome
			}
			loser := winner.Opposite()
			for _, id := range line.PlayersOn(winner) {
				playerRow(id, result.TeamOn(winner)).Wins++
			}
			for _, id := range line.PlayersOn(loser) {
				playerRow(id, result.TeamOn(loser)).Losses++
			}
		}
	}

	teams := make([]standing.TeamStanding, 0, len(teamOrder))
	for _, id := range teamOrder {
		teams = append(teams, *teamRows[id])
	}

	players := make([]standing.PlayerStanding, 0, len(playerRows))
	for _, row := range playerRows {
		if row.Games() == 0 {
			continue
		}
		row.WinPercent = float64(row.Wins) / float64(row.Games())
		players = append(players, *row)
	}

	return standing.Table{
		Teams:   RankTeams(teams),
		Players: RankPlayers(players),
	}
}

// RankTeams orders by points desc, wins desc, losses asc and assigns positions.
// Remaining ties fall back to team id so the order is stable across calls.
func RankTeams(rows []standing.TeamStanding) []standing.TeamStanding {
	out := append([]standing.TeamStanding(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Losses != b.Losses {
			return a.Losses < b.Losses
		}
		return a.TeamID < b.TeamID
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// RankPlayers orders by win percentage desc then wins desc. Players without a
// recorded game are dropped.
func RankPlayers(rows []standing.PlayerStanding) []standing.PlayerStanding {
	out := make([]standing.PlayerStanding, 0, len(rows))
	for _, row := range rows {
		if row.Games() > 0 {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WinPercent != b.WinPercent {
			return a.WinPercent > b.WinPercent
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.PlayerID < b.PlayerID
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// ApplyRecords copies leaderboard counters onto roster players. Players absent
// from the leaderboard get zero wins and losses.
func ApplyRecords(players []player.Player, rows []standing.PlayerStanding) []player.Player {
	byID := make(map[string]standing.PlayerStanding, len(rows))
	for _, row := range rows {
		byID[row.PlayerID] = row
	}

	out := make([]player.Player, len(players))
	for i, p := range players {
		row := byID[p.ID]
		p.Wins = row.Wins
		p.Losses = row.Losses
		out[i] = p
	}
	return out
}
