package handlers

import (
	dbsql "database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	db "github.com/only1thor/autobank/src/db/sql"
	"github.com/only1thor/autobank/src/models"
)

func parseLimit(r *http.Request, def, max int64) int64 {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return def
	}
	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func ListExecutions(dbh *dbsql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := models.ExecutionFilter{
			RuleID: r.URL.Query().Get("rule_id"),
			Status: r.URL.Query().Get("status"),
		}
		executions, err := db.ListExecutions(r.Context(), dbh, filter, parseLimit(r, 100, 1000))
		if err != nil {
			log.Printf("ERROR: Failed to list executions: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to list executions")
			return
		}
		if executions == nil {
			executions = []models.Execution{}
		}
		writeJSON(w, http.StatusOK, executions)
	}
}

func GetExecution(dbh *dbsql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		executionID := chi.URLParam(r, "execution_id")
		execution, err := db.GetExecution(r.Context(), dbh, executionID)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "execution not found")
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to get execution %s: %v", executionID, err)
			writeError(w, http.StatusInternalServerError, "failed to get execution")
			return
		}
		writeJSON(w, http.StatusOK, execution)
	}
}
