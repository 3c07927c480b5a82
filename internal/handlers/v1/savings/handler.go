package savings

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/jeswinjohn/ledgerd/internal/handlers/v1/dashboard"
	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/logging"
	savingsdomain "github.com/jeswinjohn/ledgerd/internal/savings"
	"github.com/jeswinjohn/ledgerd/internal/service"
)

// savingsManager is the slice of the savings service this handler needs.
type savingsManager interface {
	List(ctx context.Context) []service.SavingsView
	Create(ctx context.Context, create service.SavingsCreate) ledger.SavingsRecord
	Update(ctx context.Context, id string, create service.SavingsCreate) error
	Delete(ctx context.Context, id string)
	Close(ctx context.Context, id string) error
	AddMonth(ctx context.Context, id string, amount decimal.Decimal, date time.Time) (ledger.DepositEntry, error)
}

// Handler handles the savings endpoints.
type Handler struct {
	Savings savingsManager
}

// NewHandler creates a new savings Handler.
func NewHandler(svc savingsManager) *Handler {
	return &Handler{Savings: svc}
}

// Register registers the savings endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-savings",
		Method:      http.MethodGet,
		Path:        "/v1/savings",
		Summary:     "List savings",
		Description: "Lists savings records. Recurring-deposit plans include their derived payment schedule and maturity estimate.",
		Tags:        []string{"Savings"},
	}, h.handleList)

	huma.Register(api, huma.Operation{
		OperationID:   "create-saving",
		Method:        http.MethodPost,
		Path:          "/v1/savings",
		Summary:       "Create saving",
		Description:   "Creates a one-time saving or a recurring-deposit plan. The record is queued for the remote store and lands in the local cache either way.",
		Tags:          []string{"Savings"},
		DefaultStatus: http.StatusAccepted,
	}, h.handleCreate)

	huma.Register(api, huma.Operation{
		OperationID: "update-saving",
		Method:      http.MethodPut,
		Path:        "/v1/savings/{id}",
		Summary:     "Update saving",
		Description: "Edits an active record. Closed records reject edits.",
		Tags:        []string{"Savings"},
	}, h.handleUpdate)

	huma.Register(api, huma.Operation{
		OperationID: "delete-saving",
		Method:      http.MethodDelete,
		Path:        "/v1/savings/{id}",
		Summary:     "Delete saving",
		Tags:        []string{"Savings"},
	}, h.handleDelete)

	huma.Register(api, huma.Operation{
		OperationID: "add-saving-month",
		Method:      http.MethodPost,
		Path:        "/v1/savings/{id}/add-month",
		Summary:     "Record a monthly deposit",
		Description: "Appends one deposit to a recurring plan. A zero amount defaults to the plan's monthly amount.",
		Tags:        []string{"Savings"},
	}, h.handleAddMonth)

	huma.Register(api, huma.Operation{
		OperationID: "close-saving",
		Method:      http.MethodPost,
		Path:        "/v1/savings/{id}/close",
		Summary:     "Close saving",
		Description: "Marks the record closed. Closing is terminal; deposits on a closed record are rejected.",
		Tags:        []string{"Savings"},
	}, h.handleClose)
}

// ListSavingsOutput is the Huma output for the savings list.
type ListSavingsOutput struct {
	Body struct {
		Savings []dashboard.Saving `json:"savings" doc:"Savings records"`
	}
}

func (h *Handler) handleList(ctx context.Context, _ *struct{}) (*ListSavingsOutput, error) {
	views := h.Savings.List(ctx)

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("savingsCount", len(views))
	}

	response := &ListSavingsOutput{}
	response.Body.Savings = make([]dashboard.Saving, len(views))
	for i, view := range views {
		response.Body.Savings[i] = dashboard.SavingToAPI(view)
	}
	return response, nil
}

// SavingBody is the writable part of a savings record.
type SavingBody struct {
	Kind      ledger.SavingsKind `json:"kind" required:"true" enum:"saving,rd" doc:"Savings variant"`
	Name      string             `json:"name" required:"true" minLength:"1" doc:"Name"`
	Amount    string             `json:"amount,omitempty" doc:"One-time amount; malformed input coerces to 0"`
	ExpiresAt string             `json:"expiresAt,omitempty" format:"date-time" doc:"Optional expiry of a one-time saving"`

	MonthlyAmount string `json:"rdMonthly,omitempty" doc:"RD monthly amount"`
	TenureMonths  int    `json:"rdMonths,omitempty" minimum:"0" doc:"RD tenure in months"`
	StartDate     string `json:"rdStart,omitempty" format:"date-time" doc:"RD start date; defaults to now"`
}

func (b SavingBody) toCreate() (service.SavingsCreate, error) {
	create := service.SavingsCreate{
		Kind:          b.Kind,
		Name:          b.Name,
		Amount:        ledger.CoerceAmount(b.Amount),
		MonthlyAmount: ledger.CoerceAmount(b.MonthlyAmount),
		TenureMonths:  b.TenureMonths,
	}
	if b.ExpiresAt != "" {
		expires, err := time.Parse(time.RFC3339, b.ExpiresAt)
		if err != nil {
			return service.SavingsCreate{}, huma.Error400BadRequest("expiresAt must be RFC3339", err)
		}
		create.ExpiresAt = &expires
	}
	if b.StartDate != "" {
		start, err := time.Parse(time.RFC3339, b.StartDate)
		if err != nil {
			return service.SavingsCreate{}, huma.Error400BadRequest("rdStart must be RFC3339", err)
		}
		create.StartDate = start
	}
	return create, nil
}

// CreateSavingInput is the Huma input for creating a record.
type CreateSavingInput struct {
	Body SavingBody
}

// SavingOutput echoes a single record.
type SavingOutput struct {
	Body dashboard.Saving
}

func (h *Handler) handleCreate(ctx context.Context, input *CreateSavingInput) (*SavingOutput, error) {
	create, err := input.Body.toCreate()
	if err != nil {
		return nil, err
	}

	rec := h.Savings.Create(ctx, create)
	return &SavingOutput{Body: dashboard.SavingToAPI(service.SavingsView{Record: rec})}, nil
}

// UpdateSavingInput is the Huma input for editing a record.
type UpdateSavingInput struct {
	ID   string `path:"id" doc:"Record id"`
	Body SavingBody
}

// UpdateSavingOutput acknowledges the queued edit.
type UpdateSavingOutput struct {
	Body struct {
		ID string `json:"id" doc:"Record id"`
	}
}

func (h *Handler) handleUpdate(ctx context.Context, input *UpdateSavingInput) (*UpdateSavingOutput, error) {
	create, err := input.Body.toCreate()
	if err != nil {
		return nil, err
	}

	if err := h.Savings.Update(ctx, input.ID, create); err != nil {
		return nil, mapSavingError(err)
	}

	response := &UpdateSavingOutput{}
	response.Body.ID = input.ID
	return response, nil
}

// DeleteSavingInput is the Huma input for deleting a record.
type DeleteSavingInput struct {
	ID string `path:"id" doc:"Record id"`
}

func (h *Handler) handleDelete(ctx context.Context, input *DeleteSavingInput) (*struct{}, error) {
	h.Savings.Delete(ctx, input.ID)
	return &struct{}{}, nil
}

// AddMonthInput is the Huma input for recording a deposit.
type AddMonthInput struct {
	ID   string `path:"id" doc:"Record id"`
	Body struct {
		Amount string `json:"amount,omitempty" doc:"Deposit amount; zero or malformed defaults to the plan's monthly amount"`
		Date   string `json:"date,omitempty" format:"date-time" doc:"Deposit date; defaults to now"`
	}
}

// AddMonthOutput echoes the recorded deposit.
type AddMonthOutput struct {
	Body struct {
		Amount string `json:"amount" doc:"Deposit amount"`
		Date   string `json:"date" doc:"Deposit date"`
	}
}

func (h *Handler) handleAddMonth(ctx context.Context, input *AddMonthInput) (*AddMonthOutput, error) {
	var date time.Time
	if input.Body.Date != "" {
		parsed, err := time.Parse(time.RFC3339, input.Body.Date)
		if err != nil {
			return nil, huma.Error400BadRequest("date must be RFC3339", err)
		}
		date = parsed
	}

	entry, err := h.Savings.AddMonth(ctx, input.ID, ledger.CoerceAmount(input.Body.Amount), date)
	if err != nil {
		return nil, mapSavingError(err)
	}

	response := &AddMonthOutput{}
	response.Body.Amount = entry.Amount.String()
	response.Body.Date = entry.Date.Format(time.RFC3339)
	return response, nil
}

// CloseSavingInput is the Huma input for closing a record.
type CloseSavingInput struct {
	ID string `path:"id" doc:"Record id"`
}

func (h *Handler) handleClose(ctx context.Context, input *CloseSavingInput) (*UpdateSavingOutput, error) {
	if err := h.Savings.Close(ctx, input.ID); err != nil {
		return nil, mapSavingError(err)
	}

	response := &UpdateSavingOutput{}
	response.Body.ID = input.ID
	return response, nil
}

func mapSavingError(err error) error {
	switch {
	case errors.Is(err, service.ErrSavingNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, savingsdomain.ErrSavingClosed), errors.Is(err, savingsdomain.ErrNotRecurring):
		return huma.Error409Conflict(err.Error())
	default:
		return huma.Error500InternalServerError("saving operation failed", err)
	}
}
