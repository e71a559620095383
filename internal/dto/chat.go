package dto

import portssvc "github.com/SscSPs/dailybalance/internal/core/ports/services"

// ChatMessageRequest is one user message to the advisor.
type ChatMessageRequest struct {
	Message string `json:"message" binding:"required,max=4000" example:"I spent 9.50 on lunch"`
}

// ChatReplyResponse is returned when the client asks for JSON instead of an event stream.
type ChatReplyResponse struct {
	Reply    string             `json:"reply"`
	Outcomes []portssvc.Outcome `json:"outcomes"`
}
