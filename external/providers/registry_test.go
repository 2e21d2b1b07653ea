package providers

import (
	"testing"

	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

func TestRegistry_OrderAndLookup(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(newTestDeps(), RegistryConfig{})
	want := []string{"GGpoker", "PokerStars", "888poker", "WSOP", "PartyPoker", "WPT Global", "bestbet", "PokerAtlas"}

	all := reg.All()
	if len(all) != len(want) {
		t.Fatalf("unexpected connector count %d", len(all))
	}
	for i, c := range all {
		if c.Name() != want[i] {
			t.Fatalf("connector %d = %s want %s", i, c.Name(), want[i])
		}
	}

	c, ok := reg.Find("wpt global")
	if !ok || c.Name() != "WPT Global" {
		t.Fatalf("case-insensitive lookup failed: %v %v", c, ok)
	}
	if _, ok := reg.Find("Stars"); ok {
		t.Fatalf("lookup must be an exact match")
	}

	bb, _ := reg.Find("bestbet")
	tournaments, cashGames := provider.Capabilities(bb)
	if !tournaments || !cashGames || bb.Category() != provider.CategoryIRL {
		t.Fatalf("unexpected bestbet capabilities %v %v %s", tournaments, cashGames, bb.Category())
	}
	atlas, _ := reg.Find("PokerAtlas")
	if tournaments, cashGames := provider.Capabilities(atlas); tournaments || !cashGames {
		t.Fatalf("PokerAtlas should only offer cash games")
	}
}
