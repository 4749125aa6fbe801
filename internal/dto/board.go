package dto

import (
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/board"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

// TaskCardDTO is the per-task view-model rendered in a board column.
type TaskCardDTO struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Status        models.TaskStatus `json:"status"`
	DueDate       *time.Time        `json:"due_date"`
	Tag           string            `json:"tag"`
	ProjectID     string            `json:"project_id"`
	ProjectTitle  string            `json:"project_title"`
	ProjectPaused bool              `json:"project_paused"`
}

// ColumnResponse is the ordered card list of one column.
type ColumnResponse struct {
	Column board.Column  `json:"column"`
	Cards  []TaskCardDTO `json:"cards"`
}

// ToTaskCardDTO converts a classifier card to its API shape
func ToTaskCardDTO(card board.Card) TaskCardDTO {
	return TaskCardDTO{
		ID:            card.Task.ID,
		Title:         card.Task.Title,
		Status:        card.Task.Status,
		DueDate:       card.Task.DueDate,
		Tag:           card.Tag,
		ProjectID:     card.ProjectID,
		ProjectTitle:  card.ProjectTitle,
		ProjectPaused: card.ProjectPaused,
	}
}

// ToColumnResponse converts a column's cards to the API shape
func ToColumnResponse(column board.Column, cards []board.Card) ColumnResponse {
	dtos := make([]TaskCardDTO, len(cards))
	for i, card := range cards {
		dtos[i] = ToTaskCardDTO(card)
	}
	return ColumnResponse{Column: column, Cards: dtos}
}
