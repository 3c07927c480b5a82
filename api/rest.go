package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/jeswinjohn/ledgerd/internal/handlers/v1/dashboard"
	"github.com/jeswinjohn/ledgerd/internal/handlers/v1/gamification"
	"github.com/jeswinjohn/ledgerd/internal/handlers/v1/notes"
	"github.com/jeswinjohn/ledgerd/internal/handlers/v1/reports"
	"github.com/jeswinjohn/ledgerd/internal/handlers/v1/savings"
	"github.com/jeswinjohn/ledgerd/internal/handlers/v1/status"
	"github.com/jeswinjohn/ledgerd/internal/handlers/v1/transaction"
	"github.com/jeswinjohn/ledgerd/internal/logging"
	"github.com/jeswinjohn/ledgerd/internal/service"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
}

// NewAPI builds the Huma API on the given mux and registers every
// handler. Split out from Serve so tests can drive the same routes
// without a listener.
func (r *Rest) NewAPI(mux *http.ServeMux) huma.API {
	humaAPI := humago.New(mux, huma.DefaultConfig("ledgerd", "1.0.0"))

	humaAPI.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		logData := logging.NewLogData(r.Logger)
		endTimer := logData.AddTiming("duration")

		next(huma.WithValue(ctx, logging.ContextKey(), logData))

		endTimer()
		logData.AddData("status", ctx.Status())
		logData.Log().Infof("Handler.%v.Complete", ctx.Operation().OperationID)
	})

	transaction.NewCreateTransactionHandler(r.Service.Dashboard).Register(humaAPI)
	transaction.NewListTransactionsHandler(r.Service.Reports).Register(humaAPI)
	dashboard.NewHandler(r.Service.Dashboard).Register(humaAPI)
	savings.NewHandler(r.Service.Savings).Register(humaAPI)
	notes.NewHandler(r.Service.Reports).Register(humaAPI)
	reports.NewHandler(r.Service.Reports).Register(humaAPI)
	gamification.NewHandler(r.Service.Gamification).Register(humaAPI)

	return humaAPI
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()
	r.NewAPI(mux)

	statusHandler := status.NewHandler()
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
