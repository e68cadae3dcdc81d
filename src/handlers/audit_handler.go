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

func parseEpoch(r *http.Request, key string) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func QueryAudit(dbh *dbsql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := models.AuditFilter{
			EventType:    r.URL.Query().Get("event_type"),
			Actor:        r.URL.Query().Get("actor"),
			ResourceType: r.URL.Query().Get("resource_type"),
			ResourceID:   r.URL.Query().Get("resource_id"),
			From:         parseEpoch(r, "from"),
			To:           parseEpoch(r, "to"),
		}
		entries, err := db.QueryAudit(r.Context(), dbh, filter, parseLimit(r, db.DefaultAuditLimit, db.MaxAuditLimit))
		if err != nil {
			log.Printf("ERROR: Failed to query audit log: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to query audit log")
			return
		}
		if entries == nil {
			entries = []models.AuditEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func GetAuditEntry(dbh *dbsql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryID := chi.URLParam(r, "entry_id")
		entry, err := db.GetAuditEntry(r.Context(), dbh, entryID)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "audit entry not found")
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to get audit entry %s: %v", entryID, err)
			writeError(w, http.StatusInternalServerError, "failed to get audit entry")
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}
