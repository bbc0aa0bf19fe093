package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lynndabel/Bloconnect/internal/http/handlers/common"
	"github.com/Lynndabel/Bloconnect/internal/journal"
)

// JournalHandler отдаёт историю событий пользователя из журнала.
type JournalHandler struct {
	journal *journal.Journal
}

// NewJournalHandler создаёт новый хэндлер.
func NewJournalHandler(j *journal.Journal) *JournalHandler {
	return &JournalHandler{journal: j}
}

// ListMyEvents обрабатывает GET /api/events.
func (h *JournalHandler) ListMyEvents(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	entries, err := h.journal.ListByUser(c.Request.Context(), userID, int(limit), int(offset))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": entries})
}
