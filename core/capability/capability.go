package capability

// Action names a permission-checked operation.
type Action string

const (
	// CreateTopic is creating a forum topic in a channel.
	CreateTopic Action = "create_topic"
)

// Oracle answers capability checks.
type Oracle interface {
	CanPerform(actor int64, action Action, target int64) bool
}

// Func adapts a function to Oracle.
type Func func(actor int64, action Action, target int64) bool

func (f Func) CanPerform(actor int64, action Action, target int64) bool {
	return f(actor, action, target)
}

// Allow returns an oracle that permits everything.
func Allow() Oracle {
	return Func(func(int64, Action, int64) bool { return true })
}
