package memory

import (
	"time"

	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/player"
	"github.com/riskibarqy/community-league/internal/domain/post"
	"github.com/riskibarqy/community-league/internal/domain/team"
	"github.com/riskibarqy/community-league/internal/platform/locale"
)

const (
	TeamIDHarbourHawks  = "harbour-hawks"
	TeamIDJadeDragons   = "jade-dragons"
	TeamIDRiverOtters   = "river-otters"
	TeamIDSummitFalcons = "summit-falcons"
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDHarbourHawks, Name: locale.Text{EN: "Harbour Hawks", ZH: "港湾之鹰"}, Short: "HAW", CaptainUserID: "captain-hawks"},
		{ID: TeamIDJadeDragons, Name: locale.Text{EN: "Jade Dragons", ZH: "翡翠龙"}, Short: "JAD", CaptainUserID: "captain-dragons"},
		{ID: TeamIDRiverOtters, Name: locale.Text{EN: "River Otters", ZH: "河狸队"}, Short: "OTT", CaptainUserID: "captain-otters"},
		{ID: TeamIDSummitFalcons, Name: locale.Text{EN: "Summit Falcons", ZH: "峰顶猎鹰"}, Short: "FAL", CaptainUserID: "captain-falcons"},
	}
}

func SeedPlayers() []player.Player {
	roster := func(teamID, prefix string, names ...[2]string) []player.Player {
		positions := []player.Position{
			player.PositionSingles,
			player.PositionSingles,
			player.PositionDoubles,
			player.PositionDoubles,
			player.PositionReserve,
		}
		out := make([]player.Player, 0, len(names))
		for i, name := range names {
			out = append(out, player.Player{
				ID:       prefix + "-" + string(rune('1'+i)),
				TeamID:   teamID,
				Name:     locale.Text{EN: name[0], ZH: name[1]},
				Position: positions[i%len(positions)],
			})
		}
		return out
	}

	var out []player.Player
	out = append(out, roster(TeamIDHarbourHawks, "haw",
		[2]string{"Mei Chen", "陈美"},
		[2]string{"Daniel Wong", "黄丹尼"},
		[2]string{"Grace Lin", "林恩"},
		[2]string{"Kevin Ho", "何凯文"},
		[2]string{"Sandy Lau", "刘珊"},
	)...)
	out = append(out, roster(TeamIDJadeDragons, "jad",
		[2]string{"Wei Zhang", "张伟"},
		[2]string{"Amy Liu", "刘艾米"},
		[2]string{"Jason Tan", "陈杰森"},
		[2]string{"Ivy Xu", "徐艾"},
		[2]string{"Leo Ma", "马力"},
	)...)
	out = append(out, roster(TeamIDRiverOtters, "ott",
		[2]string{"Hannah Park", "朴汉娜"},
		[2]string{"Tom Li", "李汤姆"},
		[2]string{"Rachel Kim", "金瑞秋"},
		[2]string{"Victor Sun", "孙维克"},
	)...)
	out = append(out, roster(TeamIDSummitFalcons, "fal",
		[2]string{"Olivia Zhou", "周奥莉"},
		[2]string{"Ben Yang", "杨本"},
		[2]string{"Chloe Wu", "吴可"},
		[2]string{"Eric Guo", "郭瑞克"},
	)...)
	return out
}

// SeedGames schedules a preseason friendly and the first two regular rounds
// starting at seasonStart.
func SeedGames(seasonStart time.Time) []game.Game {
	at := func(days int) time.Time { return seasonStart.AddDate(0, 0, days).UTC() }
	return []game.Game{
		{ID: "preseason-1", ScheduledAt: at(-7), HomeTeamID: TeamIDHarbourHawks, AwayTeamID: TeamIDJadeDragons, Venue: "Victoria Park Court 2", Status: game.StatusPreseason, UpdatedAt: at(-14)},
		{ID: "round-1-a", ScheduledAt: at(0), HomeTeamID: TeamIDHarbourHawks, AwayTeamID: TeamIDRiverOtters, Venue: "Victoria Park Court 1", Status: game.StatusScheduled, UpdatedAt: at(-14)},
		{ID: "round-1-b", ScheduledAt: at(0), HomeTeamID: TeamIDJadeDragons, AwayTeamID: TeamIDSummitFalcons, Venue: "Kowloon Tsai Court 4", Status: game.StatusScheduled, UpdatedAt: at(-14)},
		{ID: "round-2-a", ScheduledAt: at(7), HomeTeamID: TeamIDRiverOtters, AwayTeamID: TeamIDJadeDragons, Venue: "Kowloon Tsai Court 4", Status: game.StatusScheduled, UpdatedAt: at(-14)},
		{ID: "round-2-b", ScheduledAt: at(7), HomeTeamID: TeamIDSummitFalcons, AwayTeamID: TeamIDHarbourHawks, Venue: "Victoria Park Court 1", Status: game.StatusScheduled, UpdatedAt: at(-14)},
	}
}

func SeedPosts(publishedAt time.Time) []post.Post {
	return []post.Post{
		{
			ID:          "welcome",
			Title:       locale.Text{EN: "Welcome to the new season", ZH: "新赛季欢迎辞"},
			Body:        locale.Text{EN: "Captains can now enter results online after each match.", ZH: "各队队长现在可以在每场比赛后在线提交成绩。"},
			AuthorID:    "captain-hawks",
			PublishedAt: publishedAt.UTC(),
		},
	}
}
