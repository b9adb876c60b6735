package domain

import (
	"strings"

	"github.com/google/uuid"
)

type Todo struct {
	ID       string
	Title    string `validate:"required,max=255"`
	Done     bool
	Location *Location
}

// NewTodoID returns a time-ordered identifier, so sorting ids sorts by creation.
func NewTodoID() string {
	id, err := uuid.NewV7()

	if err != nil {
		return uuid.New().String()
	}

	return id.String()
}

func (t *Todo) Toggle(done bool) {
	t.Done = done
}

func (t *Todo) Relocate(location *Location) {
	t.Location = location
}

func (t *Todo) HasLocation() bool {
	return t.Location != nil
}

func (t *Todo) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
}
