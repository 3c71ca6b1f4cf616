package players

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Season is one regular-season totals row from a career stats source.
// FG3M is nil when the source had no three-point data for that season.
type Season struct {
	SeasonID string
	GP       float64
	PTS      float64
	AST      float64
	REB      float64
	STL      float64
	BLK      float64
	FG3M     *float64
}

// Career is a player's ordered regular-season history.
type Career struct {
	PlayerID int64
	Seasons  []Season
}

// StatSeries is one stat across seasons, encoded as {"stat": ..., "data": [seasons, values]}.
type StatSeries struct {
	Stat    string
	Seasons []string
	Values  []float64
}

type statSeriesJSON struct {
	Stat string             `json:"stat"`
	Data [2]json.RawMessage `json:"data"`
}

func (s StatSeries) MarshalJSON() ([]byte, error) {
	seasons := s.Seasons
	if seasons == nil {
		seasons = []string{}
	}
	values := s.Values
	if values == nil {
		values = []float64{}
	}
	return json.Marshal(struct {
		Stat string `json:"stat"`
		Data [2]any `json:"data"`
	}{Stat: s.Stat, Data: [2]any{seasons, values}})
}

func (s *StatSeries) UnmarshalJSON(b []byte) error {
	var raw statSeriesJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.Stat = raw.Stat
	if err := json.Unmarshal(raw.Data[0], &s.Seasons); err != nil {
		return fmt.Errorf("stat %s seasons: %w", raw.Stat, err)
	}
	if err := json.Unmarshal(raw.Data[1], &s.Values); err != nil {
		return fmt.Errorf("stat %s values: %w", raw.Stat, err)
	}
	return nil
}

// StatHistory is the ordered list served by the stats endpoints.
type StatHistory []StatSeries

// BuildStatHistory derives PPG, APG, RPG, SPG, BPG (per game, one decimal)
// and 3PM (season total, whole number) in that order.
func BuildStatHistory(c Career) StatHistory {
	seasons := make([]string, len(c.Seasons))
	for i, s := range c.Seasons {
		seasons[i] = s.SeasonID
	}

	perGame := func(total func(Season) float64) []float64 {
		out := make([]float64, len(c.Seasons))
		for i, s := range c.Seasons {
			if s.GP <= 0 {
				continue
			}
			out[i] = round1(total(s) / s.GP)
		}
		return out
	}

	threes := make([]float64, len(c.Seasons))
	for i, s := range c.Seasons {
		if s.FG3M != nil && !math.IsNaN(*s.FG3M) {
			threes[i] = math.Round(*s.FG3M)
		}
	}

	return StatHistory{
		{Stat: "PPG", Seasons: seasons, Values: perGame(func(s Season) float64 { return s.PTS })},
		{Stat: "APG", Seasons: seasons, Values: perGame(func(s Season) float64 { return s.AST })},
		{Stat: "RPG", Seasons: seasons, Values: perGame(func(s Season) float64 { return s.REB })},
		{Stat: "SPG", Seasons: seasons, Values: perGame(func(s Season) float64 { return s.STL })},
		{Stat: "BPG", Seasons: seasons, Values: perGame(func(s Season) float64 { return s.BLK })},
		{Stat: "3PM", Seasons: seasons, Values: threes},
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ErrNoSeasons is returned when a career has no rows to derive a retirement year from.
var ErrNoSeasons = errors.New("career has no seasons")

// LastSeasonYear returns the calendar year the final season ended in.
// "2023-24" yields 2024, "1999-00" yields 2000 and a bare "2024" is taken as is.
// Years later than currentYear+1 are rejected as bogus upstream data.
func LastSeasonYear(c Career, currentYear int) (int, error) {
	if len(c.Seasons) == 0 {
		return 0, ErrNoSeasons
	}
	year, err := SeasonEndYear(c.Seasons[len(c.Seasons)-1].SeasonID)
	if err != nil {
		return 0, err
	}
	if year > currentYear+1 {
		return 0, fmt.Errorf("unrealistic retirement year %d", year)
	}
	return year, nil
}

// SeasonEndYear parses a season id into the year the season ended.
func SeasonEndYear(seasonID string) (int, error) {
	seasonID = strings.TrimSpace(seasonID)
	start, end, found := strings.Cut(seasonID, "-")
	if !found {
		year, err := strconv.Atoi(seasonID)
		if err != nil {
			return 0, fmt.Errorf("parse season %q: %w", seasonID, err)
		}
		return year, nil
	}

	startYear, err := strconv.Atoi(start)
	if err != nil {
		return 0, fmt.Errorf("parse season %q: %w", seasonID, err)
	}
	suffix, err := strconv.Atoi(end)
	if err != nil {
		return 0, fmt.Errorf("parse season %q: %w", seasonID, err)
	}
	if len(end) == 4 {
		return suffix, nil
	}
	year := (startYear/100)*100 + suffix
	if year <= startYear {
		year += 100
	}
	return year, nil
}
