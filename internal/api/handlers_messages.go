package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/pingline/pingline/internal/auth"
	"github.com/pingline/pingline/internal/model"
)

type sendMessageRequest struct {
	Message string `json:"message"`
}

func (a *API) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	receiverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid receiver id")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	conv, err := a.convs.FindOrCreate(r.Context(), senderID, receiverID)
	if err != nil {
		a.logger.Error("conversation lookup failed", "error", err,
			"sender_id", senderID, "receiver_id", receiverID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	msg, err := a.convs.Append(r.Context(), conv.ID, senderID, receiverID, req.Message)
	if err != nil {
		a.logger.Error("message append failed", "error", err,
			"conversation_id", conv.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Message sent successfully",
		"newMessage": msg,
	})
}

func (a *API) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	otherID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	msgs, err := a.convs.History(r.Context(), userID, otherID)
	if err != nil {
		a.logger.Error("history lookup failed", "error", err,
			"user_id", userID, "other_id", otherID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
