package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
)

// CreateTransactionBody is the request body for submitting a transaction.
// Amount is a plain string: malformed and negative values coerce to zero
// rather than being rejected, matching the store's input policy.
type CreateTransactionBody struct {
	Kind     string `json:"kind" required:"true" enum:"income,expense" doc:"Transaction kind"`
	Title    string `json:"title" required:"true" minLength:"1" doc:"Title"`
	Amount   string `json:"amount" required:"true" doc:"Decimal amount; malformed input coerces to 0"`
	Date     string `json:"date,omitempty" format:"date-time" doc:"RFC3339 date, defaults to now"`
	Category string `json:"category,omitempty" doc:"Category label"`
	Notes    string `json:"notes,omitempty" doc:"Free-form notes"`
}

// CreateTransactionInput is the Huma input for submitting a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionResponse echoes the coerced record that was queued.
type CreateTransactionResponse struct {
	Kind   string `json:"kind" doc:"Transaction kind"`
	Title  string `json:"title" doc:"Title"`
	Amount string `json:"amount" doc:"Coerced decimal amount"`
	Date   string `json:"date" doc:"Coerced RFC3339 date"`
}

// CreateTransactionOutput is the Huma output for submitting a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponse
}

// transactionSubmitter is the slice of the dashboard service this
// handler needs.
type transactionSubmitter interface {
	SubmitTransaction(ctx context.Context, create ledger.TransactionCreate) ledger.Transaction
}

// CreateTransactionHandler handles POST /v1/transaction. Submission is
// fire-and-forget: the response confirms queueing, not persistence.
type CreateTransactionHandler struct {
	Dashboard transactionSubmitter
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionSubmitter) *CreateTransactionHandler {
	return &CreateTransactionHandler{Dashboard: svc}
}

// Register registers the submit endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Submit transaction",
		Description:   "Queues a new income or expense entry. The entry is immutable once persisted.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusAccepted,
	}, h.handle)
}

// parseCreateTransactionInput coerces the raw body into a create input.
// Amount and date follow the coercion policy instead of failing.
func parseCreateTransactionInput(input *CreateTransactionInput) (ledger.TransactionCreate, error) {
	var date time.Time
	if input.Body.Date != "" {
		parsed, err := time.Parse(time.RFC3339, input.Body.Date)
		if err != nil {
			return ledger.TransactionCreate{}, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
		date = parsed
	}

	return ledger.TransactionCreate{
		Kind:     ledger.TransactionKind(input.Body.Kind),
		Title:    input.Body.Title,
		Amount:   ledger.CoerceAmount(input.Body.Amount),
		Date:     date,
		Category: input.Body.Category,
		Notes:    input.Body.Notes,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	create, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	queued := h.Dashboard.SubmitTransaction(ctx, create)

	return &CreateTransactionOutput{
		Status: http.StatusAccepted,
		Body: CreateTransactionResponse{
			Kind:   string(queued.Kind),
			Title:  queued.Title,
			Amount: queued.Amount.String(),
			Date:   queued.Date.Format(time.RFC3339),
		},
	}, nil
}
