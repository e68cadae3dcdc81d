package handlers

import (
	dbsql "database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/only1thor/autobank/src/audit"
	db "github.com/only1thor/autobank/src/db/sql"
	"github.com/only1thor/autobank/src/models"
	"github.com/only1thor/autobank/src/rules"
)

type createRuleRequest struct {
	Name              string             `json:"name"`
	Description       *string            `json:"description"`
	Enabled           *bool              `json:"enabled"`
	TriggerAccountKey string             `json:"trigger_account_key"`
	Conditions        []models.Condition `json:"conditions"`
	Actions           []models.Action    `json:"actions"`
}

type updateRuleRequest struct {
	Name              *string             `json:"name"`
	Description       *string             `json:"description"`
	TriggerAccountKey *string             `json:"trigger_account_key"`
	Conditions        *[]models.Condition `json:"conditions"`
	Actions           *[]models.Action    `json:"actions"`
}

func CreateRule(dbh *dbsql.DB, auditLog *audit.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create rule request body: %v", err)
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		now := time.Now().Unix()
		enabled := true
		if req.Enabled != nil {
			enabled = *req.Enabled
		}
		rule := &models.Rule{
			ID:                uuid.NewString(),
			Name:              req.Name,
			Description:       req.Description,
			Enabled:           enabled,
			TriggerAccountKey: req.TriggerAccountKey,
			Conditions:        req.Conditions,
			Actions:           req.Actions,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		if err := rules.ValidateRule(rule); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := db.CreateRule(r.Context(), dbh, rule); err != nil {
			log.Printf("ERROR: Failed to create rule: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to create rule")
			return
		}

		auditLog.LogResource(r.Context(), audit.EventRuleCreated, audit.ActorUser, "rule", rule.ID, map[string]any{
			"name":                rule.Name,
			"trigger_account_key": rule.TriggerAccountKey,
		})
		writeJSON(w, http.StatusCreated, rule)
	}
}

func GetRule(dbh *dbsql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ruleID := chi.URLParam(r, "rule_id")
		rule, err := db.GetRule(r.Context(), dbh, ruleID)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "rule not found")
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to get rule %s: %v", ruleID, err)
			writeError(w, http.StatusInternalServerError, "failed to get rule")
			return
		}
		writeJSON(w, http.StatusOK, rule)
	}
}

func ListRules(dbh *dbsql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ruleList, err := db.ListRules(r.Context(), dbh)
		if err != nil {
			log.Printf("ERROR: Failed to list rules: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to list rules")
			return
		}
		if ruleList == nil {
			ruleList = []models.Rule{}
		}
		writeJSON(w, http.StatusOK, ruleList)
	}
}

func UpdateRule(dbh *dbsql.DB, auditLog *audit.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ruleID := chi.URLParam(r, "rule_id")
		rule, err := db.GetRule(r.Context(), dbh, ruleID)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "rule not found")
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to get rule %s: %v", ruleID, err)
			writeError(w, http.StatusInternalServerError, "failed to get rule")
			return
		}

		var req updateRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update rule request body: %v", err)
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if req.Name != nil {
			rule.Name = *req.Name
		}
		if req.Description != nil {
			rule.Description = req.Description
		}
		if req.TriggerAccountKey != nil {
			rule.TriggerAccountKey = *req.TriggerAccountKey
		}
		if req.Conditions != nil {
			rule.Conditions = *req.Conditions
		}
		if req.Actions != nil {
			rule.Actions = *req.Actions
		}
		rule.UpdatedAt = time.Now().Unix()

		if err := rules.ValidateRule(rule); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := db.UpdateRule(r.Context(), dbh, rule); err != nil {
			log.Printf("ERROR: Failed to update rule %s: %v", ruleID, err)
			writeError(w, http.StatusInternalServerError, "failed to update rule")
			return
		}

		auditLog.LogResource(r.Context(), audit.EventRuleUpdated, audit.ActorUser, "rule", rule.ID, map[string]any{
			"name": rule.Name,
		})
		writeJSON(w, http.StatusOK, rule)
	}
}

func DeleteRule(dbh *dbsql.DB, auditLog *audit.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ruleID := chi.URLParam(r, "rule_id")
		err := db.DeleteRule(r.Context(), dbh, ruleID)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "rule not found")
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to delete rule %s: %v", ruleID, err)
			writeError(w, http.StatusInternalServerError, "failed to delete rule")
			return
		}

		auditLog.LogResource(r.Context(), audit.EventRuleDeleted, audit.ActorUser, "rule", ruleID, map[string]any{})
		writeJSON(w, http.StatusOK, map[string]string{"message": "rule deleted"})
	}
}

func setRuleEnabled(dbh *dbsql.DB, auditLog *audit.Logger, enabled bool) http.HandlerFunc {
	eventType := audit.EventRuleEnabled
	if !enabled {
		eventType = audit.EventRuleDisabled
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ruleID := chi.URLParam(r, "rule_id")
		err := db.SetRuleEnabled(r.Context(), dbh, ruleID, enabled, time.Now().Unix())
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "rule not found")
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to set rule %s enabled=%v: %v", ruleID, enabled, err)
			writeError(w, http.StatusInternalServerError, "failed to update rule")
			return
		}

		auditLog.LogResource(r.Context(), eventType, audit.ActorUser, "rule", ruleID, map[string]any{})

		rule, err := db.GetRule(r.Context(), dbh, ruleID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to get rule")
			return
		}
		writeJSON(w, http.StatusOK, rule)
	}
}

func EnableRule(dbh *dbsql.DB, auditLog *audit.Logger) http.HandlerFunc {
	return setRuleEnabled(dbh, auditLog, true)
}

func DisableRule(dbh *dbsql.DB, auditLog *audit.Logger) http.HandlerFunc {
	return setRuleEnabled(dbh, auditLog, false)
}

// ListRuleExecutions returns a rule's execution history. The rule id is not
// checked against the rules table: history for deleted rules stays queryable.
func ListRuleExecutions(dbh *dbsql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ruleID := chi.URLParam(r, "rule_id")
		executions, err := db.ListExecutions(r.Context(), dbh, models.ExecutionFilter{RuleID: ruleID}, parseLimit(r, 100, 1000))
		if err != nil {
			log.Printf("ERROR: Failed to list executions for rule %s: %v", ruleID, err)
			writeError(w, http.StatusInternalServerError, "failed to list executions")
			return
		}
		if executions == nil {
			executions = []models.Execution{}
		}
		writeJSON(w, http.StatusOK, executions)
	}
}
