package models

// FriendLink — запись списка дружественных ссылок.
type FriendLink struct {
	ID      float64 `json:"id"`
	Name    string  `json:"name"`
	URL     string  `json:"url"`
	Icon    string  `json:"icon,omitempty"`
	AddedAt string  `json:"addedAt"`
}
