package dto

import "github.com/yukikurage/join-board/internal/models"

// BoardColumnDTO is one status column of the board
type BoardColumnDTO struct {
	Status models.TaskStatus `json:"status"`
	Tasks  []TaskDTO         `json:"tasks"`
}

// BoardResponse lists the columns in display order
type BoardResponse struct {
	Columns []BoardColumnDTO `json:"columns"`
}

// SummaryDTO holds the numbers of the summary page
type SummaryDTO struct {
	ToDo         int    `json:"toDo"`
	Progress     int    `json:"progress"`
	Feedback     int    `json:"feedback"`
	Done         int    `json:"done"`
	Urgent       int    `json:"urgent"`
	Total        int    `json:"total"`
	NextDeadline string `json:"nextDeadline,omitempty"`
	Greeting     string `json:"greeting"`
	UserName     string `json:"userName,omitempty"`
}

// ToBoardColumnDTO converts one column
func ToBoardColumnDTO(status models.TaskStatus, tasks []models.Task) BoardColumnDTO {
	return BoardColumnDTO{
		Status: status,
		Tasks:  ToTaskDTOs(tasks),
	}
}
