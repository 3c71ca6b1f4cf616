package nbastats

import "time"

const (
	providerName       = "nbastats"
	defaultBaseURL     = "https://stats.nba.com/stats"
	defaultHTTPTimeout = 15 * time.Second
	careerEndpoint     = "/playercareerstats"
	regularSeasonSet   = "SeasonTotalsRegularSeason"
	combinedTeamAbbrev = "TOT"

	// stats.nba.com drops requests that do not look like they came from nba.com.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	referer   = "https://www.nba.com/"
	origin    = "https://www.nba.com"
)
