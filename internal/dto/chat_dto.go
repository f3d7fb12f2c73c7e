package dto

import "grip-chatbot-be/pkg/store"

type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionId string `json:"session_id" validate:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type NewChatResponse struct {
	SessionId string `json:"session_id"`
}

// SessionPreviewResponse is one sidebar entry.
type SessionPreviewResponse struct {
	Id       string `json:"id"`
	Preview  string `json:"preview"`
	IsLocked bool   `json:"is_locked"`
}

type SessionHistoryResponse struct {
	History  []store.Turn `json:"history"`
	IsLocked bool         `json:"is_locked"`
}
