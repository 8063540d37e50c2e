package bot

// Step is the conversation position of one operator.
type Step string

const (
	StepIdle             Step = ""
	StepAwaitingDeleteID Step = "awaiting_delete_id"
)
