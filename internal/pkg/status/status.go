package status

// Status represents call dispatch status
type Status int

const (
	// Pending - the call row is created, the bot trigger is queued
	Pending Status = iota + 1
	// Dispatched - the bot trigger is being invoked
	Dispatched
	// Completed value
	Completed
	// Failed value
	Failed
)

var (
	statusName = map[Status]string{Pending: "pending", Dispatched: "dispatched",
		Completed: "completed", Failed: "failed"}
	nameStatus = map[string]Status{"pending": Pending, "dispatched": Dispatched,
		"completed": Completed, "failed": Failed}
)

func Name(st Status) string {
	return statusName[st]
}

func From(st string) Status {
	return nameStatus[st]
}

// IsTerminal returns true for statuses that no longer change
func IsTerminal(st Status) bool {
	return st == Completed || st == Failed
}
