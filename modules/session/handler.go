package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"brandvision-server/modules/analysis"
	"brandvision-server/modules/common/utils"
)

type Handler struct {
	ctrl *Controller
}

func NewHandler(ctrl *Controller) *Handler {
	return &Handler{ctrl: ctrl}
}

type analyzeRequest struct {
	URL       string   `json:"url"`
	Goal      string   `json:"goal"`
	Platforms []string `json:"platforms"`
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

// archiveSummary - 보관함 목록용 요약 (이미지 본문 제외)
type archiveSummary struct {
	ID               string `json:"id"`
	Timestamp        int64  `json:"timestamp"`
	URL              string `json:"url"`
	BrandName        string `json:"brandName"`
	ValueProposition string `json:"valueProposition"`
	ConceptCount     int    `json:"conceptCount"`
	ImageCount       int    `json:"imageCount"`
}

// StartAnalysis - POST /api/analyze
func (h *Handler) StartAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if !analysis.IsValidGoal(req.Goal) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown goal: %s", req.Goal))
		return
	}
	if len(req.Platforms) == 0 {
		writeError(w, http.StatusBadRequest, "at least one platform is required")
		return
	}
	for _, p := range req.Platforms {
		if !analysis.IsValidPlatform(p) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown platform: %s", p))
			return
		}
	}

	sessionID, err := h.ctrl.Start(context.Background(), req.URL, req.Goal, req.Platforms)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"sessionId": sessionID})
}

// GetSession - GET /api/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

// AddKeyword - POST /api/session/keywords
func (h *Handler) AddKeyword(w http.ResponseWriter, r *http.Request) {
	h.handleKeyword(w, r, h.ctrl.AddKeyword)
}

// RemoveKeyword - DELETE /api/session/keywords
func (h *Handler) RemoveKeyword(w http.ResponseWriter, r *http.Request) {
	h.handleKeyword(w, r, h.ctrl.RemoveKeyword)
}

func (h *Handler) handleKeyword(w http.ResponseWriter, r *http.Request, op func(string) error) {
	var req keywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := op(req.Keyword); err != nil {
		switch {
		case errors.Is(err, ErrEmptyKeyword):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNoActiveSession):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListArchive - GET /api/archive
func (h *Handler) ListArchive(w http.ResponseWriter, r *http.Request) {
	sessions := h.ctrl.ListArchive()

	summaries := make([]archiveSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, archiveSummary{
			ID:               sess.ID,
			Timestamp:        sess.Timestamp,
			URL:              sess.URL,
			BrandName:        sess.Data.Analysis.Name,
			ValueProposition: sess.Data.Analysis.ValueProposition,
			ConceptCount:     len(sess.Data.Concepts),
			ImageCount:       len(sess.Images),
		})
	}

	writeJSON(w, http.StatusOK, summaries)
}

// ActivateSession - POST /api/archive/{id}/activate
func (h *Handler) ActivateSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.ctrl.Activate(id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteSession - DELETE /api/archive/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.ctrl.Delete(id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearArchive - DELETE /api/archive
func (h *Handler) ClearArchive(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.ClearArchive(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadImage - GET /api/session/images/{conceptId}?format=png|webp
func (h *Handler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	conceptID := mux.Vars(r)["conceptId"]

	dataURL, ok := h.ctrl.Image(conceptID)
	if !ok {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	mimeType, data, err := utils.ParseDataURL(dataURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("stored image is unreadable: %v", err))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "webp" {
		webpData, err := utils.ConvertPNGToWebP(data, 90.0)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("webp conversion failed: %v", err))
			return
		}
		mimeType = "image/webp"
		data = webpData
	}

	ext := "png"
	if format == "webp" {
		ext = "webp"
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="brandvision_%s.%s"`, conceptID, ext))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
