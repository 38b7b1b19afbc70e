package cart

import "sync"

// Store keeps one cart per POS station.
type Store struct {
	mu    sync.Mutex
	carts map[int64]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[int64]*Cart)}
}

// Get returns the station's cart, creating it on first use.
func (s *Store) Get(stationID int64) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[stationID]
	if !ok {
		c = New()
		s.carts[stationID] = c
	}
	return c
}
