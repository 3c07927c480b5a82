package reports

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jeswinjohn/ledgerd/internal/aggregate"
	"github.com/jeswinjohn/ledgerd/internal/logging"
)

// summarizer is the slice of the report service this handler needs.
type summarizer interface {
	MonthlySummary(ctx context.Context) []aggregate.Bucket
	YearlySummary(ctx context.Context) []aggregate.Bucket
}

// Handler handles the summary endpoints.
type Handler struct {
	Reports summarizer
}

// NewHandler creates a new reports Handler.
func NewHandler(svc summarizer) *Handler {
	return &Handler{Reports: svc}
}

// Register registers the report endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-monthly-summary",
		Method:      http.MethodGet,
		Path:        "/v1/reports/monthly",
		Summary:     "Monthly summary",
		Description: "Buckets all transactions by calendar month and marks the best and worst months.",
		Tags:        []string{"Reports"},
	}, h.handleMonthly)

	huma.Register(api, huma.Operation{
		OperationID: "get-yearly-summary",
		Method:      http.MethodGet,
		Path:        "/v1/reports/yearly",
		Summary:     "Yearly summary",
		Description: "Buckets all transactions by calendar year.",
		Tags:        []string{"Reports"},
	}, h.handleYearly)
}

// Period is one bucket of the summary.
type Period struct {
	Key     string `json:"key" doc:"Calendar key"`
	Income  string `json:"income" doc:"Summed income"`
	Expense string `json:"expense" doc:"Summed expense"`
	Savings string `json:"savings" doc:"Income minus expense"`
}

func toPeriods(buckets []aggregate.Bucket) []Period {
	periods := make([]Period, len(buckets))
	for i, b := range buckets {
		periods[i] = Period{
			Key:     b.Key,
			Income:  b.Income.String(),
			Expense: b.Expense.String(),
			Savings: b.Savings().String(),
		}
	}
	return periods
}

// MonthlySummaryOutput is the Huma output for the monthly report.
type MonthlySummaryOutput struct {
	Body struct {
		Months           []Period `json:"months" doc:"Per-month buckets, ascending by key"`
		BestMonth        string   `json:"bestMonth,omitempty" doc:"Month with the highest savings"`
		WorstMonth       string   `json:"worstMonth,omitempty" doc:"Month with the lowest savings"`
		LowestSpendMonth string   `json:"lowestSpendMonth,omitempty" doc:"Month with the smallest positive expense"`
	}
}

func (h *Handler) handleMonthly(ctx context.Context, _ *struct{}) (*MonthlySummaryOutput, error) {
	buckets := h.Reports.MonthlySummary(ctx)

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("monthCount", len(buckets))
	}

	response := &MonthlySummaryOutput{}
	response.Body.Months = toPeriods(buckets)
	if best, ok := aggregate.Extremum(buckets, aggregate.FieldSavings, aggregate.MaxDirection); ok {
		response.Body.BestMonth = best.Key
	}
	if worst, ok := aggregate.Extremum(buckets, aggregate.FieldSavings, aggregate.MinDirection); ok {
		response.Body.WorstMonth = worst.Key
	}
	if lowest, ok := aggregate.LowestPositiveExpense(buckets); ok {
		response.Body.LowestSpendMonth = lowest.Key
	}
	return response, nil
}

// YearlySummaryOutput is the Huma output for the yearly report.
type YearlySummaryOutput struct {
	Body struct {
		Years []Period `json:"years" doc:"Per-year buckets, ascending by key"`
	}
}

func (h *Handler) handleYearly(ctx context.Context, _ *struct{}) (*YearlySummaryOutput, error) {
	buckets := h.Reports.YearlySummary(ctx)
	response := &YearlySummaryOutput{}
	response.Body.Years = toPeriods(buckets)
	return response, nil
}
