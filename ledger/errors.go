package ledger

import "fmt"

type (
	InvalidInput struct {
		Field  string
		Reason string
	}

	UserNotFound struct {
		Username string
		ID       int64
	}

	TaskNotFound struct {
		ID int64
	}

	UsernameTaken struct {
		Username string
	}
)

func (i InvalidInput) Error() string {
	return fmt.Sprintf("invalid %v: %v", i.Field, i.Reason)
}

func (u UserNotFound) Error() string {
	if u.Username != "" {
		return fmt.Sprintf("user %v not found", u.Username)
	}
	return fmt.Sprintf("user with id %v not found", u.ID)
}

func (t TaskNotFound) Error() string {
	return fmt.Sprintf("task %v not found", t.ID)
}

func (u UsernameTaken) Error() string {
	return fmt.Sprintf("username %v is already taken", u.Username)
}
