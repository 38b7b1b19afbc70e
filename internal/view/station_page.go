package view

import (
	"io"

	"github.com/tuanvumaihuynh/pos-station/internal/model"
)

// StationPage is the POS screen of one station: the product grid and the
// current cart.
type StationPage struct {
	StationID   int64
	Cards       []ProductCard
	Cart        []model.CartItem
	Total       float64
	ClearAction string
	// Flash is a one-line notice shown above the grid, e.g. a rejected add.
	Flash string
}

func (p StationPage) Render(w io.Writer) error {
	cards := make([]cardData, 0, len(p.Cards))
	for _, c := range p.Cards {
		cards = append(cards, cardData{ProductCard: c, StatusClass: c.statusClass()})
	}

	return render(w, "station_page", struct {
		StationPage
		CardData []cardData
	}{
		StationPage: p,
		CardData:    cards,
	})
}
