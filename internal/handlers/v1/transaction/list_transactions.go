package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jeswinjohn/ledgerd/internal/aggregate"
	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/logging"
	"github.com/jeswinjohn/ledgerd/internal/service"
)

// ListTransactionsInput carries the optional report filters as query
// parameters.
type ListTransactionsInput struct {
	Query string `query:"q" doc:"Free-text match over title and notes"`
	From  string `query:"from" doc:"Inclusive lower date bound, RFC3339"`
	To    string `query:"to" doc:"Inclusive upper date bound, RFC3339"`
	Kind  string `query:"kind" enum:",all,income,expense" doc:"Kind filter, defaults to all"`
}

// ListTransactionsTotals is the summary over exactly the filtered list.
type ListTransactionsTotals struct {
	Income  string `json:"income" doc:"Summed income"`
	Expense string `json:"expense" doc:"Summed expense"`
	Balance string `json:"balance" doc:"Income minus expense"`
}

// ListTransactionsResponseBody is the response body for listing
// transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction          `json:"transactions" doc:"Filtered transactions"`
	Totals       ListTransactionsTotals `json:"totals" doc:"Totals over the filtered list"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionFilterer is the slice of the report service this handler
// needs.
type transactionFilterer interface {
	Filter(ctx context.Context, filter service.TransactionFilter) ([]ledger.Transaction, aggregate.Totals)
}

// ListTransactionsHandler handles GET /v1/transactions.
type ListTransactionsHandler struct {
	Reports transactionFilterer
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionFilterer) *ListTransactionsHandler {
	return &ListTransactionsHandler{Reports: svc}
}

// Register registers the list endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions",
		Summary:     "List transactions",
		Description: "Returns the transaction collection, optionally filtered, with totals.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseListTransactionsInput(input *ListTransactionsInput) (service.TransactionFilter, error) {
	filter := service.TransactionFilter{Query: input.Query, Kind: input.Kind}

	if input.From != "" {
		from, err := time.Parse(time.RFC3339, input.From)
		if err != nil {
			return filter, huma.NewError(http.StatusBadRequest, "invalid from date", err)
		}
		filter.From = from
	}
	if input.To != "" {
		to, err := time.Parse(time.RFC3339, input.To)
		if err != nil {
			return filter, huma.NewError(http.StatusBadRequest, "invalid to date", err)
		}
		filter.To = to
	}
	return filter, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	filter, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	logData := logging.GetLogData(ctx)
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	transactions, totals := h.Reports.Filter(ctx, filter)
	if stopTimer != nil {
		stopTimer()
	}

	if logData != nil {
		logData.AddData("transactionCount", len(transactions))
	}

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(transactions)),
		Totals: ListTransactionsTotals{
			Income:  totals.Income.String(),
			Expense: totals.Expense.String(),
			Balance: totals.Balance.String(),
		},
	}

	for i, tx := range transactions {
		resp.Transactions[i] = Transaction{
			ID:       tx.ID,
			Kind:     string(tx.Kind),
			Title:    tx.Title,
			Amount:   tx.Amount.String(),
			Date:     tx.Date.Format(time.RFC3339),
			Category: tx.Category,
			Notes:    tx.Notes,
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
