package models

// Assignee is one contact assigned to a task. Name and Color are copied from
// the contact at assignment time so cards render without a contact lookup.
type Assignee struct {
	ContactID string `json:"contactId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
}

// Subtask is one checklist entry of a task.
type Subtask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}
