package handlers

import (
	dbsql "database/sql"
	"log"
	"net/http"

	"github.com/only1thor/autobank/src/audit"
	db "github.com/only1thor/autobank/src/db/sql"
	"github.com/only1thor/autobank/src/engine"
)

type systemStatus struct {
	Status           string `json:"status"`
	SchedulerEnabled bool   `json:"scheduler_enabled"`
	LastPoll         int64  `json:"last_poll"`
	TotalRules       int64  `json:"total_rules"`
	EnabledRules     int64  `json:"enabled_rules"`
	TotalExecutions  int64  `json:"total_executions"`
}

func GetSystemStatus(dbh *dbsql.DB, scheduler *engine.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totalRules, enabledRules, err := db.CountRules(r.Context(), dbh)
		if err != nil {
			log.Printf("ERROR: Failed to count rules: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to read system status")
			return
		}
		totalExecutions, err := db.CountExecutions(r.Context(), dbh)
		if err != nil {
			log.Printf("ERROR: Failed to count executions: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to read system status")
			return
		}

		status := scheduler.Status()
		state := "ok"
		if !status.Running {
			state = "degraded"
		}
		writeJSON(w, http.StatusOK, systemStatus{
			Status:           state,
			SchedulerEnabled: status.Enabled,
			LastPoll:         status.LastPoll,
			TotalRules:       totalRules,
			EnabledRules:     enabledRules,
			TotalExecutions:  totalExecutions,
		})
	}
}

// TriggerPoll requests a manual poll cycle. Requests arriving while a cycle
// is pending coalesce into one follow-up cycle.
func TriggerPoll(scheduler *engine.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheduler.TriggerPoll()
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "poll triggered"})
	}
}

func setSchedulerEnabled(scheduler *engine.Scheduler, auditLog *audit.Logger, enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if enabled {
			scheduler.Enable()
		} else {
			scheduler.Disable()
		}
		auditLog.Log(r.Context(), audit.EventConfigChanged, audit.ActorUser, map[string]any{
			"scheduler_enabled": enabled,
		})
		message := "scheduler disabled"
		if enabled {
			message = "scheduler enabled"
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

func EnableScheduler(scheduler *engine.Scheduler, auditLog *audit.Logger) http.HandlerFunc {
	return setSchedulerEnabled(scheduler, auditLog, true)
}

func DisableScheduler(scheduler *engine.Scheduler, auditLog *audit.Logger) http.HandlerFunc {
	return setSchedulerEnabled(scheduler, auditLog, false)
}
