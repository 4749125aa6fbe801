package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/freelance-marketplace-api/internal/board"
	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/middleware"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
)

// BoardHandler serves the classified kanban columns.
type BoardHandler struct {
	boardService *services.BoardService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// GetColumn returns the ordered cards of one column for the current
// user.
func (h *BoardHandler) GetColumn(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	column, err := board.ParseColumn(c.Param("column"))
	if err != nil {
		apierrors.BadRequest(c, "Unknown column")
		return
	}

	cards, err := h.boardService.Column(userID, column)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToColumnResponse(column, cards))
}
