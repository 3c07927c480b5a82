package ledger

// Note is a reminder pinned to a calendar day, independent of
// transactions. Date is a plain "YYYY-MM-DD" day, not a timestamp.
type Note struct {
	ID   string `json:"_id"`
	Date string `json:"date"`
	Text string `json:"text"`
}
