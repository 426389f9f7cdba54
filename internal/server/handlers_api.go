package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/career-assistant/internal/gateway"
	"github.com/jonathan/career-assistant/internal/ingestion"
	"github.com/jonathan/career-assistant/internal/rendering"
	"github.com/jonathan/career-assistant/internal/types"
)

// GenerateResumeRequest is the body of POST /api/generate-resume. Either part may
// be omitted; gaps are filled with placeholders.
type GenerateResumeRequest struct {
	Document *types.ResumeDocument `json:"document,omitempty"`
	Analysis *types.ResumeAnalysis `json:"analysis,omitempty"`
}

// ChatResponse is the single reply of POST /api/chat.
type ChatResponse struct {
	Role    types.Role `json:"role"`
	Content string     `json:"content"`
}

// handleBLS returns a labor statistics series.
func (s *Server) handleBLS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seriesID := q.Get("seriesId")
	if seriesID == "" {
		s.failure(w, requiredError("seriesId"), msgBLSFailed)
		return
	}

	data, err := s.gateway.BLS.FetchSeries(r.Context(), seriesID, q.Get("startYear"), q.Get("endYear"))
	if err != nil {
		s.failure(w, err, msgBLSFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, data)
}

// handleONet returns an occupational summary.
func (s *Server) handleONet(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("onetCode")
	if code == "" {
		s.failure(w, requiredError("onetCode"), msgONetFailed)
		return
	}

	data, err := s.gateway.ONet.FetchSummary(r.Context(), code)
	if err != nil {
		s.failure(w, err, msgONetFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, data)
}

// handleAdzuna returns job board search results.
func (s *Server) handleAdzuna(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		s.failure(w, requiredError("query"), msgAdzunaFailed)
		return
	}

	data, err := s.gateway.Adzuna.Search(r.Context(), query, q.Get("country"))
	if err != nil {
		s.failure(w, err, msgAdzunaFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, data)
}

// handleCareers returns the static career recommendations. With enrich=true
// each one carries its occupation summary and wage series.
func (s *Server) handleCareers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	for _, field := range []string{"skills", "interests"} {
		if q.Get(field) == "" {
			s.failure(w, requiredError(field), msgCareersFailed)
			return
		}
	}

	recs := gateway.CareerCatalog()
	if enrich, _ := strconv.ParseBool(q.Get("enrich")); enrich {
		if err := s.gateway.Enrich(r.Context(), recs); err != nil {
			s.failure(w, err, msgCareersFailed)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, recs)
}

// handleProxy forwards a JSON call. Upstream error statuses pass through.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	var req types.ProxyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, validationError(err), msgInvalidBody)
		return
	}

	data, err := s.gateway.Proxy.Forward(r.Context(), req)
	if err != nil {
		var upstreamErr *gateway.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.Status >= http.StatusBadRequest {
			s.errorResponse(w, upstreamErr.Status, upstreamErr.Message)
			return
		}
		log.Printf("[server] Proxy request failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// handleAnalyzeResume scores an uploaded résumé without touching any session.
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	doc, err := ingestion.Extract(filename, data)
	if err != nil {
		s.failure(w, err, msgResumeFailed)
		return
	}
	result, err := s.assistant.AnalyzeResume(r.Context(), doc.Text, types.UserProfile{})
	if err != nil {
		s.failure(w, err, msgResumeFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, result.Analysis)
}

// handleGenerateResume returns the résumé as a PDF attachment, or as an HTML
// page with ?format=html.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	var req GenerateResumeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if r.URL.Query().Get("format") == "html" {
		page, err := rendering.RenderHTML(rendering.NewHTMLData(req.Document, req.Analysis))
		if err != nil {
			s.failure(w, err, msgResumeFailed)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(page)) //nolint:errcheck
		return
	}

	var doc types.ResumeDocument
	if req.Document != nil {
		doc = *req.Document
	}
	pdf, err := rendering.DecodeDataURI(rendering.SynthesizePDF(doc))
	if err != nil {
		s.failure(w, err, msgResumeFailed)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+rendering.PDFFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf) //nolint:errcheck
}

// handleChat answers a stateless conversation.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, validationError(err), msgInvalidBody)
		return
	}
	if last := req.Messages[len(req.Messages)-1]; last.Role != string(types.RoleUser) {
		s.errorResponse(w, http.StatusBadRequest, "last message must come from the user")
		return
	}

	answer, err := s.assistant.Chat(r.Context(), req.Messages)
	if err != nil {
		s.failure(w, err, msgChatFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, ChatResponse{Role: types.RoleAssistant, Content: answer})
}
