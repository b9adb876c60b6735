package factory

import (
	"fmt"

	fab "github.com/Goldziher/fabricator"

	"lovemap/internal/core/domain"
)

// NewTodo builds a todo with a fresh id and a valid location unless overridden.
func NewTodo(customData ...map[string]any) domain.Todo {
	todo := fab.New(domain.Todo{}).Build(merge(customData))

	if !provided(customData, "ID") {
		todo.ID = domain.NewTodoID()
	}

	if !provided(customData, "Title") {
		todo.Title = fmt.Sprintf("todo %s", todo.ID[len(todo.ID)-6:])
	}

	if !provided(customData, "Location") {
		location := domain.DefaultLocation
		todo.Location = &location
	}

	return todo
}
