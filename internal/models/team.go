package models

// TeamLogos maps team abbreviations to logo image URLs for the
// scoreboard cards.
var TeamLogos = map[string]string{
	"ATL": "https://loodibee.com/wp-content/uploads/nba-atlanta-hawks-logo.png",
	"BOS": "https://loodibee.com/wp-content/uploads/nba-boston-celtics-logo.png",
	"BKN": "https://loodibee.com/wp-content/uploads/nba-brooklyn-nets-logo.png",
	"CHA": "https://loodibee.com/wp-content/uploads/nba-charlotte-hornets-logo.png",
	"CHI": "https://loodibee.com/wp-content/uploads/nba-chicago-bulls-logo.png",
	"CLE": "https://loodibee.com/wp-content/uploads/Clevelan-Cavaliers-logo-2022.png",
	"DAL": "https://loodibee.com/wp-content/uploads/nba-dallas-mavericks-logo.png",
	"DEN": "https://loodibee.com/wp-content/uploads/nba-denver-nuggets-logo-2018.png",
	"DET": "https://loodibee.com/wp-content/uploads/nba-detroit-pistons-logo.png",
	"GSW": "https://loodibee.com/wp-content/uploads/nba-golden-state-warriors-logo.png",
	"HOU": "https://loodibee.com/wp-content/uploads/houston-rockets-logo-symbol.png",
	"IND": "https://loodibee.com/wp-content/uploads/nba-indiana-pacers-logo.png",
	"LAC": "https://loodibee.com/wp-content/uploads/NBA-LA-Clippers-logo-2024.png",
	"LAL": "https://loodibee.com/wp-content/uploads/nba-los-angeles-lakers-logo.png",
	"MEM": "https://loodibee.com/wp-content/uploads/nba-memphis-grizzlies-logo.png",
	"MIA": "https://loodibee.com/wp-content/uploads/nba-miami-heat-logo.png",
	"MIL": "https://loodibee.com/wp-content/uploads/nba-milwaukee-bucks-logo.png",
	"MIN": "https://loodibee.com/wp-content/uploads/nba-minnesota-timberwolves-logo.png",
	"NOP": "https://loodibee.com/wp-content/uploads/nba-new-orleans-pelicans-logo.png",
	"NYK": "https://loodibee.com/wp-content/uploads/nba-new-york-knicks-logo.png",
	"OKC": "https://loodibee.com/wp-content/uploads/nba-oklahoma-city-thunder-logo.png",
	"ORL": "https://loodibee.com/wp-content/uploads/nba-orlando-magic-logo.png",
	"PHI": "https://loodibee.com/wp-content/uploads/nba-philadelphia-76ers-logo.png",
	"PHX": "https://loodibee.com/wp-content/uploads/nba-phoenix-suns-logo.png",
	"POR": "https://loodibee.com/wp-content/uploads/nba-portland-trail-blazers-logo.png",
	"SAC": "https://loodibee.com/wp-content/uploads/nba-sacramento-kings-logo.png",
	"SAS": "https://loodibee.com/wp-content/uploads/nba-san-antonio-spurs-logo.png",
	"TOR": "https://loodibee.com/wp-content/uploads/nba-toronto-raptors-logo.png",
	"UTA": "https://loodibee.com/wp-content/uploads/nba-utah-jazz-logo.png",
	"WAS": "https://loodibee.com/wp-content/uploads/nba-washington-wizards-logo.png",
}

// LogoURL returns the logo for a team abbreviation, or empty when the
// team is unknown.
func LogoURL(abbrev string) string {
	return TeamLogos[abbrev]
}
