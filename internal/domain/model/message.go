package model

import "time"

// Author is the denormalized view of a message's owner.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnedBy reports whether userID is the message's author.
func (m *Message) OwnedBy(userID string) bool {
	return m.Author.ID == userID
}
