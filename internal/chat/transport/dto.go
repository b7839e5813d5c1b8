// Package transport defines the wire DTOs of the chat API.
package transport

import (
	"hashlife_backend/internal/chat"
)

// StartSessionResponse is returned when the shell mounts and opens a session.
type StartSessionResponse struct {
	SessionID string        `json:"sessionId"`
	Token     string        `json:"token"`
	Snapshot  chat.Snapshot `json:"snapshot"`
}

// MessageRequest carries one visitor action: free text or a quick-reply
// token. Exactly one of the two should be set; when both are present the
// quick reply wins, mirroring how the shell disables the text input while
// options are shown.
type MessageRequest struct {
	Text       string `json:"text" validate:"omitempty,max=500"`
	QuickReply string `json:"quickReply" validate:"omitempty,max=100"`
}

// Input returns the effective visitor input.
func (r MessageRequest) Input() string {
	if r.QuickReply != "" {
		return r.QuickReply
	}
	return r.Text
}

// SnapshotResponse wraps the shell read model.
type SnapshotResponse struct {
	Snapshot chat.Snapshot `json:"snapshot"`
}
