package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/docsync/internal/server/storage"
	"github.com/iudanet/docsync/internal/validation"
	"github.com/iudanet/docsync/pkg/api"
)

const (
	// DefaultChangesLimit размер страницы, если клиент не указал limit
	DefaultChangesLimit = 200
	// MaxChangesLimit верхняя граница limit
	MaxChangesLimit = 1000
	// DefaultLongPollTimeout сколько держать long-poll запрос без timeout
	DefaultLongPollTimeout = 30 * time.Second

	maxBulkBodyBytes = 32 << 20
)

// ReplicationHandler serves the changes feed and bulk writes of replicated databases
type ReplicationHandler struct {
	logger      *slog.Logger
	storage     storage.DocumentStorage
	notifier    *Notifier
	maxLongPoll time.Duration
}

// NewReplicationHandler creates a new replication handler.
// maxLongPoll caps the timeout a client may ask for.
func NewReplicationHandler(logger *slog.Logger, storage storage.DocumentStorage, notifier *Notifier, maxLongPoll time.Duration) *ReplicationHandler {
	if maxLongPoll <= 0 {
		maxLongPoll = 2 * DefaultLongPollTimeout
	}
	return &ReplicationHandler{
		logger:      logger,
		storage:     storage,
		notifier:    notifier,
		maxLongPoll: maxLongPoll,
	}
}

// changesParams параметры запроса ленты изменений
type changesParams struct {
	since    int64
	limit    int
	longPoll bool
	timeout  time.Duration
}

// Changes обрабатывает GET /api/v1/db/{db}/changes?since=N&limit=L&feed=longpoll&timeout=ms
func (h *ReplicationHandler) Changes(w http.ResponseWriter, r *http.Request) {
	db, ok := h.database(w, r)
	if !ok {
		return
	}

	params, err := h.parseChanges(r)
	if err != nil {
		h.logger.Warn("Invalid changes request", "db", db, "error", err)
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	var timer *time.Timer
	if params.longPoll {
		timer = time.NewTimer(params.timeout)
		defer timer.Stop()
	}

	for {
		// Подписываемся до чтения, чтобы не пропустить запись между ними
		wake := h.notifier.Wait(db)

		page, err := h.storage.ChangesSince(ctx, db, params.since, params.limit)
		if err != nil {
			h.logger.Error("Failed to get changes", "db", db, "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to get changes")
			return
		}

		if len(page.Docs) > 0 || !params.longPoll {
			h.writeChanges(w, db, page)
			return
		}

		select {
		case <-wake:
		case <-timer.C:
			h.writeChanges(w, db, page)
			return
		case <-ctx.Done():
			h.logger.Debug("Long-poll client gone", "db", db)
			return
		}
	}
}

func (h *ReplicationHandler) writeChanges(w http.ResponseWriter, db string, page *storage.ChangesPage) {
	resp := api.ChangesResponse{
		Results: page.Docs,
		LastSeq: page.LastSeq,
		Pending: page.Pending,
	}
	writeJSON(w, h.logger, http.StatusOK, resp)

	if len(page.Docs) > 0 {
		h.logger.Debug("Changes sent", "db", db, "count", len(page.Docs), "last_seq", page.LastSeq)
	}
}

func (h *ReplicationHandler) parseChanges(r *http.Request) (changesParams, error) {
	q := r.URL.Query()
	params := changesParams{limit: DefaultChangesLimit, timeout: DefaultLongPollTimeout}

	if s := q.Get("since"); s != "" {
		since, err := strconv.ParseInt(s, 10, 64)
		if err != nil || since < 0 {
			return params, fmt.Errorf("invalid since parameter %q", s)
		}
		params.since = since
	}

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit <= 0 {
			return params, fmt.Errorf("invalid limit parameter %q", s)
		}
		params.limit = min(limit, MaxChangesLimit)
	}

	switch feed := q.Get("feed"); feed {
	case "", "normal":
	case "longpoll":
		params.longPoll = true
	default:
		return params, fmt.Errorf("unsupported feed %q", feed)
	}

	if s := q.Get("timeout"); s != "" {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil || ms < 0 {
			return params, fmt.Errorf("invalid timeout parameter %q", s)
		}
		params.timeout = time.Duration(ms) * time.Millisecond
	}
	params.timeout = min(params.timeout, h.maxLongPoll)

	return params, nil
}

// BulkDocs обрабатывает POST /api/v1/db/{db}/bulk_docs.
// Documents that lose to the stored revision are counted as conflicts.
func (h *ReplicationHandler) BulkDocs(w http.ResponseWriter, r *http.Request) {
	db, ok := h.database(w, r)
	if !ok {
		return
	}

	var req api.BulkDocsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBulkBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode bulk docs request", "db", db, "error", err)
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for i, doc := range req.Docs {
		if err := validation.ValidateDocumentID(doc.ID); err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("document %d: %v", i, err))
			return
		}
		if doc.Rev == "" {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("document %d: _rev is required", i))
			return
		}
	}

	ctx := r.Context()
	var resp api.BulkDocsResponse
	for i := range req.Docs {
		doc := &req.Docs[i]
		saved, err := h.storage.SaveDocument(ctx, db, doc)
		switch {
		case errors.Is(err, storage.ErrConflict):
			resp.Conflicts++
			h.logger.Debug("Document not saved (stored revision wins)", "db", db, "id", doc.ID, "rev", doc.Rev)
		case err != nil:
			h.logger.Error("Failed to save document", "db", db, "id", doc.ID, "error", err)
			if resp.Written > 0 {
				h.notifier.Notify(db)
			}
			WriteError(w, http.StatusInternalServerError, "failed to save documents")
			return
		case saved:
			resp.Written++
		}
	}

	if resp.Written > 0 {
		h.notifier.Notify(db)
	}

	h.logger.Info("Bulk docs completed",
		"db", db,
		"received", len(req.Docs),
		"written", resp.Written,
		"conflicts", resp.Conflicts)

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Databases обрабатывает GET /api/v1/db: базы, доступные пользователю
func (h *ReplicationHandler) Databases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbs, err := h.storage.ListDatabases(ctx)
	if err != nil {
		h.logger.Error("Failed to list databases", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list databases")
		return
	}

	resp := api.DatabasesResponse{Databases: []api.DatabaseInfo{}}
	for _, info := range dbs {
		if !CanAccess(ctx, info.Name) {
			continue
		}
		resp.Databases = append(resp.Databases, api.DatabaseInfo{
			Name:      info.Name,
			Documents: info.Documents,
			LastSeq:   info.LastSeq,
		})
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// database извлекает и проверяет имя базы из пути
func (h *ReplicationHandler) database(w http.ResponseWriter, r *http.Request) (string, bool) {
	db := r.PathValue("db")
	if err := validation.ValidateStoreName(db); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return "", false
	}

	if !CanAccess(r.Context(), db) {
		username, _ := GetUsername(r.Context())
		h.logger.Warn("Database access denied", "db", db, "username", username)
		WriteError(w, http.StatusForbidden, "access to database denied")
		return "", false
	}

	return db, true
}
