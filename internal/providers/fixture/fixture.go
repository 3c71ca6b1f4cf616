package fixture

import (
	"context"
	"fmt"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
)

// Provider serves a static All-Star roster and synthetic career lines,
// useful for local runs and tests without the roster database or stats.nba.com.
type Provider struct {
	roster []players.Player
}

// New creates a fixture provider over the built-in roster.
func New() *Provider {
	return &Provider{roster: defaultRoster()}
}

// FetchPlayers returns the fixture roster ordered by all-star count, highest first.
func (p *Provider) FetchPlayers(ctx context.Context) ([]players.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]players.Player, len(p.roster))
	copy(out, p.roster)
	return out, nil
}

// FetchCareer returns a deterministic career for any fixture player.
func (p *Provider) FetchCareer(ctx context.Context, playerID int64) (players.Career, error) {
	if err := ctx.Err(); err != nil {
		return players.Career{}, err
	}
	for _, pl := range p.roster {
		if pl.ID == playerID {
			return careerFor(pl), nil
		}
	}
	return players.Career{}, players.ErrPlayerNotFound
}

func retired(year int) *int {
	return &year
}

func defaultRoster() []players.Player {
	return []players.Player{
		{ID: 2544, Name: "LeBron James", AllStarCount: 20},
		{ID: 76003, Name: "Kareem Abdul-Jabbar", AllStarCount: 19, RetirementYear: retired(1989)},
		{ID: 977, Name: "Kobe Bryant", AllStarCount: 18, RetirementYear: retired(2016)},
		{ID: 1495, Name: "Tim Duncan", AllStarCount: 15, RetirementYear: retired(2016)},
		{ID: 406, Name: "Shaquille O'Neal", AllStarCount: 15, RetirementYear: retired(2011)},
		{ID: 893, Name: "Michael Jordan", AllStarCount: 14, RetirementYear: retired(2003)},
		{ID: 1717, Name: "Dirk Nowitzki", AllStarCount: 14, RetirementYear: retired(2019)},
		{ID: 201142, Name: "Kevin Durant", AllStarCount: 14},
		{ID: 1449, Name: "Larry Bird", AllStarCount: 12, RetirementYear: retired(1992)},
		{ID: 77142, Name: "Magic Johnson", AllStarCount: 12, RetirementYear: retired(1991)},
		{ID: 201939, Name: "Stephen Curry", AllStarCount: 10},
		{ID: 203507, Name: "Giannis Antetokounmpo", AllStarCount: 8},
	}
}

// careerFor derives a stable career line from the player's id and all-star count.
func careerFor(p players.Player) players.Career {
	seasons := p.AllStarCount + 3
	endYear := 2024
	if p.RetirementYear != nil {
		endYear = *p.RetirementYear
	}
	startYear := endYear - seasons

	career := players.Career{PlayerID: p.ID, Seasons: make([]players.Season, 0, seasons)}
	seed := float64(p.ID%17) + 1
	for i := 0; i < seasons; i++ {
		year := startYear + i
		gp := 70 + float64((int(p.ID)+i)%12)
		threes := float64((i + 1) * int(seed) * 3)
		if year < 1980 {
			threes = 0
		}
		season := players.Season{
			SeasonID: fmt.Sprintf("%d-%02d", year, (year+1)%100),
			GP:       gp,
			PTS:      gp * (18 + seed/2 + float64(i%5)),
			AST:      gp * (3 + seed/6),
			REB:      gp * (5 + float64(i%4)),
			STL:      gp * (0.8 + seed/40),
			BLK:      gp * (0.4 + float64(i%3)/5),
		}
		if year >= 1980 {
			season.FG3M = &threes
		}
		career.Seasons = append(career.Seasons, season)
	}
	return career
}
