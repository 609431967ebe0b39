package model

// Action is the kind of a user command. Every interactive control carries one.
type Action int

const (
	ActionNone Action = iota
	ActionToggle
	ActionDelete
	ActionCreate
	ActionSetFilter
	ActionClearCompleted
)

func (a Action) String() string {
	switch a {
	case ActionToggle:
		return "toggle"
	case ActionDelete:
		return "delete"
	case ActionCreate:
		return "create"
	case ActionSetFilter:
		return "filter"
	case ActionClearCompleted:
		return "clear-completed"
	default:
		return "none"
	}
}

// Command is a decoded user intent. ID is set for toggle and delete, Filter
// for filter switches and Text for creation.
type Command struct {
	Action Action
	ID     int64
	Filter Filter
	Text   string
}
