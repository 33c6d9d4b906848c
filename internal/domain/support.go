package domain

import "time"

// SupportQuery is a help request sent by a member. It is read-only for operators.
type SupportQuery struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Email     string    `json:"email,omitempty"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
}

func (s SupportQuery) RecordID() string { return s.ID }

func (s SupportQuery) SortValue(key string) any {
	switch key {
	case "id":
		return s.ID
	case "sender_id":
		return s.SenderID
	case "email":
		return s.Email
	case "created_at":
		return s.CreatedAt
	}
	return nil
}

func (s SupportQuery) SearchText() []string {
	return []string{s.SenderID, s.Email, s.Query}
}
