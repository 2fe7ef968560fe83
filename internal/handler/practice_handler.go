package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "practicetracker/backend/internal/errors"
	"practicetracker/backend/internal/middleware"
	"practicetracker/backend/internal/service"
)

type PracticeHandler struct {
	practiceService *service.PracticeService
}

func NewPracticeHandler(practiceService *service.PracticeService) *PracticeHandler {
	return &PracticeHandler{practiceService: practiceService}
}

type updateCardRequest struct {
	Category      *string `json:"category"`
	Mode          *string `json:"mode"`
	ManualMinutes *int    `json:"manualMinutes"`
	Notes         *string `json:"notes"`
}

type saveSessionRequest struct {
	Instrument string `json:"instrument"`
}

func (h *PracticeHandler) StartDraft(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	draft := h.practiceService.StartDraft(userID)
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *PracticeHandler) GetDraft(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	draft, apiErr := h.practiceService.GetDraft(userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *PracticeHandler) DiscardDraft(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	h.practiceService.DiscardDraft(userID)
	c.Status(http.StatusNoContent)
}

func (h *PracticeHandler) AddCard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	card, apiErr := h.practiceService.AddCard(userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"card": card})
}

func (h *PracticeHandler) UpdateCard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	card, apiErr := h.practiceService.UpdateCard(userID, c.Param("id"), service.UpdateCardInput{
		Category:      req.Category,
		Mode:          req.Mode,
		ManualMinutes: req.ManualMinutes,
		Notes:         req.Notes,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": card})
}

func (h *PracticeHandler) StopwatchAction(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	card, apiErr := h.practiceService.StopwatchAction(userID, c.Param("id"), c.Param("action"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": card})
}

func (h *PracticeHandler) SubmitCard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	draft, apiErr := h.practiceService.SubmitCard(userID, c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *PracticeHandler) RemoveCard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	draft, apiErr := h.practiceService.RemoveCard(userID, c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *PracticeHandler) SaveSession(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req saveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	session, apiErr := h.practiceService.Save(c.Request.Context(), userID, req.Instrument)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (h *PracticeHandler) RecentSessions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit := service.DefaultHistoryLimit
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	history, apiErr := h.practiceService.RecentSessions(c.Request.Context(), userID, limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *PracticeHandler) WeeklyTrend(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	trend, apiErr := h.practiceService.WeeklyTrend(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

func (h *PracticeHandler) Profile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, apiErr := h.practiceService.Profile(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func requireUser(c *gin.Context) (string, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		writeError(c, apperrors.Unauthorized(""))
		return "", false
	}
	return userID, true
}
