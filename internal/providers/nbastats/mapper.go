package nbastats

import (
	"fmt"
	"strconv"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
)

// columns resolves header names to row positions.
type columns map[string]int

func indexHeaders(headers []string) columns {
	cols := make(columns, len(headers))
	for i, h := range headers {
		cols[h] = i
	}
	return cols
}

func (c columns) require(names ...string) error {
	for _, n := range names {
		if _, ok := c[n]; !ok {
			return fmt.Errorf("nbastats: missing column %s", n)
		}
	}
	return nil
}

func (c columns) str(row []any, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// num returns the numeric cell and whether it was present.
func (c columns) num(row []any, name string) (float64, bool) {
	i, ok := c[name]
	if !ok || i >= len(row) || row[i] == nil {
		return 0, false
	}
	switch v := row[i].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func (c columns) val(row []any, name string) float64 {
	v, _ := c.num(row, name)
	return v
}

// mapCareer converts the regular-season totals table into a Career.
// Players traded mid-season have one row per team plus a TOT row; only the TOT row is kept.
func mapCareer(playerID int64, set resultSet) (players.Career, error) {
	cols := indexHeaders(set.Headers)
	if err := cols.require("SEASON_ID", "GP", "PTS", "AST", "REB", "STL", "BLK"); err != nil {
		return players.Career{}, err
	}

	hasTotal := map[string]bool{}
	for _, row := range set.RowSet {
		if cols.str(row, "TEAM_ABBREVIATION") == combinedTeamAbbrev {
			hasTotal[cols.str(row, "SEASON_ID")] = true
		}
	}

	career := players.Career{PlayerID: playerID, Seasons: make([]players.Season, 0, len(set.RowSet))}
	for _, row := range set.RowSet {
		seasonID := cols.str(row, "SEASON_ID")
		if seasonID == "" {
			continue
		}
		if hasTotal[seasonID] && cols.str(row, "TEAM_ABBREVIATION") != combinedTeamAbbrev {
			continue
		}
		season := players.Season{
			SeasonID: seasonID,
			GP:       cols.val(row, "GP"),
			PTS:      cols.val(row, "PTS"),
			AST:      cols.val(row, "AST"),
			REB:      cols.val(row, "REB"),
			STL:      cols.val(row, "STL"),
			BLK:      cols.val(row, "BLK"),
		}
		if fg3m, ok := cols.num(row, "FG3M"); ok {
			season.FG3M = &fg3m
		}
		career.Seasons = append(career.Seasons, season)
	}
	return career, nil
}
