package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Documents written by the browser client identify tasks by array position
// and keep assignees and subtasks in parallel arrays. Decoding accepts both
// layouts; anything converted here is flagged so the repository writes the
// document back once and the generated identities stay stable.

type taskAlias Task

type taskWire struct {
	taskAlias
	ID json.RawMessage `json:"id"`

	Prio          string            `json:"prio"`
	AssignTo      []string          `json:"assignto"`
	AssignToID    []json.RawMessage `json:"assigntoID"`
	AssignToColor []string          `json:"assigntoColor"`
	Subtask       []string          `json:"subtask"`
	SubtasksArray []string          `json:"subtasksArray"`
	SubtaskStatus []bool            `json:"subtaskStatus"`
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*t = Task(w.taskAlias)
	t.ID, t.migrated = stableID(w.ID)

	if t.Status == "" {
		t.Status = TaskStatusToDo
	}
	if t.Priority == PriorityNone && w.Prio != "" {
		t.Priority = Priority(w.Prio)
		t.migrated = true
	}

	if len(t.Assignees) == 0 && len(w.AssignTo) > 0 {
		t.Assignees = make([]Assignee, 0, len(w.AssignTo))
		for i, name := range w.AssignTo {
			a := Assignee{Name: name}
			if i < len(w.AssignToID) {
				a.ContactID = rawIDString(w.AssignToID[i])
			}
			if i < len(w.AssignToColor) {
				a.Color = w.AssignToColor[i]
			}
			t.Assignees = append(t.Assignees, a)
		}
		t.migrated = true
	}

	titles := w.Subtask
	if len(titles) == 0 {
		titles = w.SubtasksArray
	}
	if len(t.Subtasks) == 0 && len(titles) > 0 {
		t.Subtasks = make([]Subtask, 0, len(titles))
		for i, title := range titles {
			t.Subtasks = append(t.Subtasks, Subtask{
				Title: title,
				Done:  i < len(w.SubtaskStatus) && w.SubtaskStatus[i],
			})
		}
		t.migrated = true
	}
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == "" {
			t.Subtasks[i].ID = uuid.NewString()
			t.migrated = true
		}
	}

	return nil
}

type contactAlias Contact

type contactWire struct {
	contactAlias
	ID       json.RawMessage `json:"id"`
	BgrColor string          `json:"bgrColor"`
}

func (c *Contact) UnmarshalJSON(data []byte) error {
	var w contactWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = Contact(w.contactAlias)
	c.ID, c.migrated = stableID(w.ID)
	if c.Color == "" && w.BgrColor != "" {
		c.Color = w.BgrColor
		c.migrated = true
	}
	return nil
}

// relinkAssignees points assignees whose contact ID no longer resolves at the
// contact with the same name.
func (u *User) relinkAssignees() {
	for ti := range u.Tasks {
		task := &u.Tasks[ti]
		for ai := range task.Assignees {
			a := &task.Assignees[ai]
			if _, c := u.FindContact(a.ContactID); c != nil {
				continue
			}
			for _, c := range u.Contacts {
				if c.Name == a.Name {
					a.ContactID = c.ID
					task.migrated = true
					break
				}
			}
		}
	}
}

// stableID keeps raw if it is a UUID and otherwise mints a new one.
func stableID(raw json.RawMessage) (string, bool) {
	id := rawIDString(raw)
	if _, err := uuid.Parse(id); err == nil {
		return id, false
	}
	return uuid.NewString(), true
}

// rawIDString renders a JSON string or number ID as a string.
func rawIDString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return strings.Trim(string(raw), `"`)
}
