package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/join-board/internal/dto"
	apierrors "github.com/yukikurage/join-board/internal/errors"
	"github.com/yukikurage/join-board/internal/middleware"
	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/services"
)

type BoardHandler struct {
	boardService *services.BoardService
}

func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// GetBoard returns the four status columns with their cards. q filters cards.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	columns, err := h.boardService.Board(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		_ = c.Error(err)
		apierrors.ServiceUnavailable(c, "Failed to load board")
		return
	}

	resp := dto.BoardResponse{Columns: make([]dto.BoardColumnDTO, len(columns))}
	for i, col := range columns {
		resp.Columns[i] = dto.ToBoardColumnDTO(col.Status, col.Tasks)
	}

	c.JSON(http.StatusOK, resp)
}

// GetSummary returns the counters of the summary page
func (h *BoardHandler) GetSummary(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	summary, err := h.boardService.Summary(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, "User not found")
			return
		}
		_ = c.Error(err)
		apierrors.ServiceUnavailable(c, "Failed to load summary")
		return
	}

	c.JSON(http.StatusOK, dto.SummaryDTO{
		ToDo:         summary.Counts[models.TaskStatusToDo],
		Progress:     summary.Counts[models.TaskStatusProgress],
		Feedback:     summary.Counts[models.TaskStatusFeedback],
		Done:         summary.Counts[models.TaskStatusDone],
		Urgent:       summary.Urgent,
		Total:        summary.Total,
		NextDeadline: summary.NextDeadline,
		Greeting:     summary.Greeting,
		UserName:     summary.UserName,
	})
}
