package metrics

// EventCacheCleared is published after an operator clears cached metrics so
// other instances drop theirs. An empty HotelID means every hotel.
const EventCacheCleared = "metrics.cache_cleared"

type CacheCleared struct {
	HotelID string `json:"hotel_id,omitempty"`
}
