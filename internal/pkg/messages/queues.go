package messages

const (
	// DispatchCall queue
	DispatchCall string = "DispatchCall"
	// Inform queue
	Inform string = "Inform"
)
