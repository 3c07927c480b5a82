package transaction

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID       string `json:"id" doc:"Record id; local- prefix marks a not-yet-synced record"`
	Kind     string `json:"kind" enum:"income,expense" doc:"Transaction kind"`
	Title    string `json:"title" doc:"Title"`
	Amount   string `json:"amount" doc:"Decimal amount"`
	Date     string `json:"date" doc:"RFC3339 transaction date"`
	Category string `json:"category,omitempty" doc:"Category label"`
	Notes    string `json:"notes,omitempty" doc:"Free-form notes"`
}
