package domain

import "io"

// Attachment is an image picked on a form, sent as a multipart file part.
type Attachment struct {
	FileName    string
	ContentType string // Optional, detected from FileName when empty
	Body        io.Reader
}

// Envelope is the JSON shape of every backend response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}
