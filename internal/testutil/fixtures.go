package testutil

import (
	"github.com/preston-bernstein/swish-service/internal/domain/players"
)

// SamplePlayer returns a roster entry with the provided id, name and count.
func SamplePlayer(id int64, name string, allStars int) players.Player {
	return players.Player{ID: id, Name: name, AllStarCount: allStars}
}

// SampleRoster returns a small roster ordered by all-star count.
func SampleRoster() []players.Player {
	retired := 2003
	return []players.Player{
		{ID: 2544, Name: "LeBron James", AllStarCount: 20},
		{ID: 893, Name: "Michael Jordan", AllStarCount: 14, RetirementYear: &retired},
		{ID: 201939, Name: "Stephen Curry", AllStarCount: 10},
	}
}

// SampleRecord returns a generate payload with an image URL.
func SampleRecord() players.Record {
	p := SamplePlayer(893, "Michael Jordan", 14)
	url, _ := players.BBRefImageURL(p.Name)
	return players.NewRecord(p, url)
}

// SampleCareer returns a two-season career for playerID.
func SampleCareer(playerID int64) players.Career {
	threes := 100.0
	return players.Career{
		PlayerID: playerID,
		Seasons: []players.Season{
			{SeasonID: "2021-22", GP: 64, PTS: 1630, AST: 406, REB: 337, STL: 86, BLK: 26, FG3M: &threes},
			{SeasonID: "2022-23", GP: 56, PTS: 1648, AST: 352, REB: 341, STL: 49, BLK: 20},
		},
	}
}
