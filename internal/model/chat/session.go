package chat

import "time"

// Session identifies one live conversation. It lives only as long as its connection.
type Session struct {
	ID        string    `json:"id"`
	PersonaID string    `json:"personaId"`
	CreatedAt time.Time `json:"createdAt"`
}
