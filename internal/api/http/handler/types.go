package handler

import (
	"encoding/json"
	"time"
)

type startRequest struct {
	Handle string `json:"handle"`
}

type startResponse struct {
	ChallengeKey string          `json:"challenge_key"`
	Options      json.RawMessage `json:"options"`
}

type finishRequest struct {
	ChallengeKey string          `json:"challenge_key"`
	Credential   json.RawMessage `json:"credential"`
}

type registerFinishResponse struct {
	Success      bool   `json:"success"`
	CredentialID string `json:"credential_id"`
}

type authFinishResponse struct {
	Success      bool      `json:"success"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type credentialView struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type listCredentialsResponse struct {
	Credentials []credentialView `json:"credentials"`
}

type errorResponse struct {
	Error string `json:"error"`
}
