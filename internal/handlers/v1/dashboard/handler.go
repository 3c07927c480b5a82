package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jeswinjohn/ledgerd/internal/budget"
	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/logging"
	"github.com/jeswinjohn/ledgerd/internal/service"
	"github.com/shopspring/decimal"
)

// Totals is the dashboard summary block.
type Totals struct {
	Income  string `json:"income" doc:"Summed income"`
	Expense string `json:"expense" doc:"Summed expense"`
	Balance string `json:"balance" doc:"Income minus expense"`
}

// Budget is the monthly limit block.
type Budget struct {
	Monthly string `json:"monthly" doc:"Monthly spending limit"`
	Auto    bool   `json:"auto" doc:"Whether the limit is auto-derived from income"`
}

// Saving is the API model of a savings record with its derived schedule.
type Saving struct {
	ID               string `json:"id" doc:"Record id"`
	Kind             string `json:"kind" enum:"saving,rd" doc:"Savings variant"`
	Name             string `json:"name" doc:"Name"`
	Status           string `json:"status" enum:"active,closed" doc:"Lifecycle state"`
	Amount           string `json:"amount" doc:"One-time amount, or running RD total"`
	CreatedAt        string `json:"createdAt,omitempty" doc:"RFC3339 creation time"`
	ClosedAt         string `json:"closedAt,omitempty" doc:"RFC3339 close time"`
	ExpiresAt        string `json:"expiresAt,omitempty" doc:"RFC3339 expiry of a one-time saving"`
	MonthlyAmount    string `json:"rdMonthly,omitempty" doc:"RD monthly amount"`
	TenureMonths     int    `json:"rdMonths,omitempty" doc:"RD tenure in months"`
	StartDate        string `json:"rdStart,omitempty" doc:"RFC3339 RD start date"`
	PaidMonths       int    `json:"paidMonths,omitempty" doc:"Deposits recorded so far"`
	Remaining        int    `json:"remaining,omitempty" doc:"Months left, floored at zero"`
	NextDue          string `json:"nextDue,omitempty" doc:"RFC3339 next due date"`
	MaturityEstimate string `json:"maturityEstimate,omitempty" doc:"Estimated maturity value"`
}

// GetDashboardResponseBody is one consistent snapshot: both lists come
// from the same joint fetch.
type GetDashboardResponseBody struct {
	Totals           Totals   `json:"totals" doc:"Overall totals"`
	Budget           Budget   `json:"budget" doc:"Monthly budget policy"`
	TransactionCount int      `json:"transactionCount" doc:"Number of transactions"`
	Savings          []Saving `json:"savings" doc:"Savings records with derived RD schedules"`
}

// GetDashboardOutput is the Huma output for the dashboard.
type GetDashboardOutput struct {
	Body GetDashboardResponseBody
}

// dashboardRefresher is the slice of the dashboard service this handler
// needs.
type dashboardRefresher interface {
	Refresh(ctx context.Context) service.DashboardView
	SetBudget(limit decimal.Decimal) budget.Policy
	SetBudgetAuto(auto bool) budget.Policy
}

// Handler handles the dashboard and budget endpoints.
type Handler struct {
	Dashboard dashboardRefresher
}

// NewHandler creates a new dashboard Handler.
func NewHandler(svc dashboardRefresher) *Handler {
	return &Handler{Dashboard: svc}
}

// Register registers the dashboard endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/v1/dashboard",
		Summary:     "Get dashboard",
		Description: "Refreshes and returns the dashboard snapshot. When the remote store is unreachable the snapshot comes wholly from the local cache.",
		Tags:        []string{"Dashboard"},
	}, h.handleGet)

	huma.Register(api, huma.Operation{
		OperationID: "set-budget",
		Method:      http.MethodPut,
		Path:        "/v1/budget",
		Summary:     "Set budget limit",
		Description: "Stores an explicit monthly spending limit.",
		Tags:        []string{"Dashboard"},
	}, h.handleSetBudget)

	huma.Register(api, huma.Operation{
		OperationID: "set-budget-auto",
		Method:      http.MethodPut,
		Path:        "/v1/budget/auto",
		Summary:     "Toggle automatic budget",
		Description: "Switches the budget limit between manual and income-derived.",
		Tags:        []string{"Dashboard"},
	}, h.handleSetBudgetAuto)
}

// SavingToAPI converts a service savings view into the API model.
func SavingToAPI(view service.SavingsView) Saving {
	rec := view.Record
	out := Saving{
		ID:     rec.ID,
		Kind:   string(rec.Kind),
		Name:   rec.Name,
		Status: string(rec.Status),
		Amount: rec.Amount.String(),
	}
	if !rec.CreatedAt.IsZero() {
		out.CreatedAt = rec.CreatedAt.Format(time.RFC3339)
	}
	if rec.ClosedAt != nil {
		out.ClosedAt = rec.ClosedAt.Format(time.RFC3339)
	}
	if rec.ExpiresAt != nil {
		out.ExpiresAt = rec.ExpiresAt.Format(time.RFC3339)
	}
	if rec.IsRecurring() {
		out.MonthlyAmount = rec.MonthlyAmount.String()
		out.TenureMonths = rec.TenureMonths
		out.StartDate = rec.StartDate.Format(time.RFC3339)
	}
	if view.Projection != nil {
		out.PaidMonths = view.Projection.PaidMonths
		out.Remaining = view.Projection.Remaining
		out.NextDue = view.Projection.NextDue.Format(time.RFC3339)
		out.MaturityEstimate = view.Projection.MaturityEstimate.String()
	}
	return out
}

func (h *Handler) handleGet(ctx context.Context, _ *struct{}) (*GetDashboardOutput, error) {
	var stopTimer func()
	logData := logging.GetLogData(ctx)
	if logData != nil {
		stopTimer = logData.AddTiming("dashboardRefreshMs")
	}
	view := h.Dashboard.Refresh(ctx)
	if stopTimer != nil {
		stopTimer()
	}

	savingsOut := make([]Saving, len(view.Savings))
	for i, sv := range view.Savings {
		savingsOut[i] = SavingToAPI(sv)
	}

	return &GetDashboardOutput{
		Body: GetDashboardResponseBody{
			Totals: Totals{
				Income:  view.Totals.Income.String(),
				Expense: view.Totals.Expense.String(),
				Balance: view.Totals.Balance.String(),
			},
			Budget: Budget{
				Monthly: view.Budget.MonthlyLimit.String(),
				Auto:    view.Budget.Auto,
			},
			TransactionCount: len(view.Transactions),
			Savings:          savingsOut,
		},
	}, nil
}

// SetBudgetInput is the Huma input for setting the limit.
type SetBudgetInput struct {
	Body struct {
		Monthly string `json:"monthly" required:"true" doc:"Monthly limit; malformed input coerces to 0"`
	}
}

// SetBudgetOutput echoes the stored policy.
type SetBudgetOutput struct {
	Body Budget
}

func (h *Handler) handleSetBudget(_ context.Context, input *SetBudgetInput) (*SetBudgetOutput, error) {
	policy := h.Dashboard.SetBudget(ledger.CoerceAmount(input.Body.Monthly))
	return &SetBudgetOutput{Body: Budget{
		Monthly: policy.MonthlyLimit.String(),
		Auto:    policy.Auto,
	}}, nil
}

// SetBudgetAutoInput is the Huma input for toggling auto mode.
type SetBudgetAutoInput struct {
	Body struct {
		Auto bool `json:"auto" doc:"Derive the limit from current-month income"`
	}
}

func (h *Handler) handleSetBudgetAuto(_ context.Context, input *SetBudgetAutoInput) (*SetBudgetOutput, error) {
	policy := h.Dashboard.SetBudgetAuto(input.Body.Auto)
	return &SetBudgetOutput{Body: Budget{
		Monthly: policy.MonthlyLimit.String(),
		Auto:    policy.Auto,
	}}, nil
}
