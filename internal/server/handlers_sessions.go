package server

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/career-assistant/internal/conversation"
	"github.com/jonathan/career-assistant/internal/ingestion"
	"github.com/jonathan/career-assistant/internal/types"
)

// multipartOverhead is allowed on top of the file limit for form framing.
const multipartOverhead = 1 << 20

// SessionView is a session snapshot with its derived tab state.
type SessionView struct {
	*conversation.Session
	Tabs conversation.TabSet `json:"tabs"`
}

// CreateSessionResponse is returned by POST /sessions.
type CreateSessionResponse struct {
	SessionID string      `json:"session_id"`
	Token     string      `json:"token,omitempty"`
	Session   SessionView `json:"session"`
}

func newSessionView(s *conversation.Session) SessionView {
	return SessionView{Session: s, Tabs: s.Tabs()}
}

// handleCreateSession starts a conversation and issues its token.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.Create(r.Context())
	if err != nil {
		s.failure(w, err, msgInternal)
		return
	}

	resp := CreateSessionResponse{SessionID: session.ID, Session: newSessionView(session)}
	if s.jwtService != nil {
		token, err := s.jwtService.GenerateToken(session.ID)
		if err != nil {
			s.failure(w, err, msgInternal)
			return
		}
		resp.Token = token
	}
	s.jsonResponse(w, http.StatusCreated, resp)
}

// handleGetSession returns the transcript, state and tabs.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.failure(w, err, msgInternal)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionView(session))
}

// handleResetSession clears the transcript back to the welcome message.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		s.failure(w, err, msgInternal)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionView(session))
}

// decodeMessage reads and validates a SendMessageRequest.
func (s *Server) decodeMessage(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req types.SendMessageRequest
	if !s.decodeJSON(w, r, &req) {
		return "", false
	}
	if err := req.Validate(); err != nil {
		s.failure(w, validationError(err), msgInvalidBody)
		return "", false
	}
	return req.Content, true
}

// handleSendMessage answers one chat message.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	content, ok := s.decodeMessage(w, r)
	if !ok {
		return
	}

	exchange, err := s.manager.Submit(r.Context(), r.PathValue("id"), content)
	if err != nil {
		s.failure(w, err, msgChatFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, exchange)
}

// handleSendMessageStream answers one chat message over SSE. The pending event
// carries the user message as soon as it is recorded, the message event the
// full exchange.
func (s *Server) handleSendMessageStream(w http.ResponseWriter, r *http.Request) {
	content, ok := s.decodeMessage(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	sse, err := NewSSEWriter(w, id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	exchange, err := s.manager.SubmitStream(r.Context(), id, content, func(msg types.Message) {
		if err := sse.Pending(msg); err != nil {
			log.Printf("[server] Session %s: failed to write pending event: %v", id, err)
		}
	})
	if err != nil {
		sse.Fail(clientMessage(err, msgChatFailed))
		return
	}

	if err := sse.Message(exchange); err != nil {
		log.Printf("[server] Session %s: failed to write message event: %v", id, err)
	}
}

// handleUploadResume analyzes a multipart "file" upload.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	exchange, err := s.manager.Upload(r.Context(), r.PathValue("id"), filename, data)
	if err != nil {
		s.failure(w, err, msgChatFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, exchange)
}

// handleCustomEdit applies free-form instructions to the active résumé.
func (s *Server) handleCustomEdit(w http.ResponseWriter, r *http.Request) {
	var req types.CustomEditRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, validationError(err), msgInvalidBody)
		return
	}

	outcome, err := s.manager.CustomEdit(r.Context(), r.PathValue("id"), req.Instructions)
	if err != nil {
		s.failure(w, err, msgResumeFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, outcome)
}

// handleUpdateProfile replaces the session's user profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile types.UserProfile
	if !s.decodeJSON(w, r, &profile) {
		return
	}

	updated, err := s.manager.UpdateProfile(r.Context(), r.PathValue("id"), profile)
	if err != nil {
		s.failure(w, validationError(err), msgInternal)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// readUpload reads the "file" part of a multipart form, bounded by ingestion.MaxFileSize.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, ingestion.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(ingestion.MaxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "file is too large")
			return "", nil, false
		}
		s.errorResponse(w, http.StatusBadRequest, "file is required")
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "file is required")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, ingestion.MaxFileSize+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read file")
		return "", nil, false
	}
	if len(data) > ingestion.MaxFileSize {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "file is too large")
		return "", nil, false
	}
	return header.Filename, data, true
}
