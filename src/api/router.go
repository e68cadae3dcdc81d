package api

import (
	dbsql "database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/only1thor/autobank/src/audit"
	"github.com/only1thor/autobank/src/bank"
	"github.com/only1thor/autobank/src/engine"
	"github.com/only1thor/autobank/src/handlers"
	"github.com/only1thor/autobank/src/middleware"
)

func NewRouter(dbh *dbsql.DB, bankClient bank.Client, scheduler *engine.Scheduler, auditLog *audit.Logger, isDemo bool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.DemoModeMiddleware(isDemo))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Rules
		r.Get("/rules", handlers.ListRules(dbh))
		r.Post("/rules", handlers.CreateRule(dbh, auditLog))
		r.Get("/rules/{rule_id}", handlers.GetRule(dbh))
		r.Put("/rules/{rule_id}", handlers.UpdateRule(dbh, auditLog))
		r.Delete("/rules/{rule_id}", handlers.DeleteRule(dbh, auditLog))
		r.Post("/rules/{rule_id}/enable", handlers.EnableRule(dbh, auditLog))
		r.Post("/rules/{rule_id}/disable", handlers.DisableRule(dbh, auditLog))
		r.Get("/rules/{rule_id}/executions", handlers.ListRuleExecutions(dbh))

		// Accounts (pass-through to the bank)
		r.Get("/accounts", handlers.ListAccounts(bankClient))
		r.Get("/accounts/{account_key}", handlers.GetAccount(bankClient))
		r.Get("/accounts/{account_key}/transactions", handlers.ListAccountTransactions(bankClient))

		// Executions
		r.Get("/executions", handlers.ListExecutions(dbh))
		r.Get("/executions/{execution_id}", handlers.GetExecution(dbh))

		// Audit
		r.Get("/audit", handlers.QueryAudit(dbh))
		r.Get("/audit/{entry_id}", handlers.GetAuditEntry(dbh))

		// System
		r.Get("/system/status", handlers.GetSystemStatus(dbh, scheduler))
		r.Post("/system/poll", handlers.TriggerPoll(scheduler))
		r.Post("/system/scheduler/enable", handlers.EnableScheduler(scheduler, auditLog))
		r.Post("/system/scheduler/disable", handlers.DisableScheduler(scheduler, auditLog))
	})

	return r
}
