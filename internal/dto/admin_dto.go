package dto

import "time"

type AIStatusResponse struct {
	Connected bool      `json:"connected"`
	Code      string    `json:"code,omitempty"`
	Message   string    `json:"message"`
	LatencyMS int64     `json:"latency_ms"`
	CheckedAt time.Time `json:"checked_at"`
}

type SceneValidationResponse struct {
	Valid  bool     `json:"valid"`
	Scenes int      `json:"scenes"`
	Errors []string `json:"errors,omitempty"`
}
