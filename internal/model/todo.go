package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinTitleLength is the shortest trimmed title accepted on creation.
const MinTitleLength = 3

// DefaultUserID is attached to records created locally. The remote keeps it,
// nothing downstream reads it.
const DefaultUserID int64 = 1

// Todo is the domain model for a todo entry. The JSON shape is shared by the
// remote resource and the local cache.
type Todo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId"`
}

// ValidationError reports a title rejected before any remote call.
type ValidationError struct {
	Title string
	Min   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("title must be at least %d characters (got %q)", e.Min, e.Title)
}

// ValidateTitle trims s and checks it against MinTitleLength.
func ValidateTitle(s string) (string, error) {
	title := strings.TrimSpace(s)
	if utf8.RuneCountInString(title) < MinTitleLength {
		return "", &ValidationError{Title: title, Min: MinTitleLength}
	}
	return title, nil
}

// Stats returns the number of completed and pending todos.
func Stats(todos []Todo) (done, pending int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
