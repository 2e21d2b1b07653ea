package pokerroom

const (
	CategoryOnline = "ONLINE"
	CategoryIRL    = "IRL"
)

type onlineSite struct {
	name  string
	brand string
}

var onlineSites = []onlineSite{
	{name: "Pokerstars", brand: "Flutter Entertainment"},
	{name: "888Poker", brand: "888 Holdings"},
	{name: "PartyPoker", brand: "Entain"},
	{name: "WPT Global", brand: "WPT Global"},
	{name: "WSOP", brand: "Caesars Entertainment"},
	{name: "GGpoker", brand: "GG International"},
	{name: "Unibet", brand: "Kindred Group"},
	{name: "iPoker Network", brand: "iPoker"},
	{name: "ACR (Americas Cardroom)", brand: "Winning Poker Network"},
	{name: "BetOnline", brand: "BetOnline"},
	{name: "CoinPoker", brand: "CoinPoker"},
	{name: "Betfair", brand: "Flutter Entertainment"},
}

// KnownRooms lists the rooms the ingestion pipeline writes against. IDs are
// left empty; repositories assign them on first insert.
func KnownRooms() []Room {
	rooms := make([]Room, 0, len(onlineSites)+3)
	for _, site := range onlineSites {
		rooms = append(rooms, Room{
			Name:     site.name,
			Brand:    site.brand,
			Category: CategoryOnline,
			City:     "Online",
			Country:  "Online",
			Timezone: "UTC",
		})
	}

	for _, city := range []string{"Jacksonville", "Orange Park", "St. Augustine"} {
		rooms = append(rooms, Room{
			Name:     "bestbet " + city,
			Brand:    "bestbet",
			Category: CategoryIRL,
			City:     city,
			State:    "FL",
			Country:  "United States",
			Timezone: "America/New_York",
			Website:  "https://bestbetjax.com",
		})
	}

	return rooms
}
