package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"surveysync/internal/cache"
	"surveysync/internal/logger"
	"surveysync/internal/model"
	"surveysync/internal/repository"
	"surveysync/internal/service"

	"github.com/gorilla/mux"
)

// ContainerHandler exposes the reconciliation engine over HTTP.
type ContainerHandler struct {
	reconciler *service.Reconciler
	records    repository.RecordRepo
	reports    cache.ReportCache
	log        *logger.Logger
}

// NewContainerHandler creates a new container handler.
func NewContainerHandler(reconciler *service.Reconciler, records repository.RecordRepo, reports cache.ReportCache, log *logger.Logger) *ContainerHandler {
	return &ContainerHandler{
		reconciler: reconciler,
		records:    records,
		reports:    reports,
		log:        log,
	}
}

// UpsertContainerRequest is the request body for storing a container's
// response/schema pair.
type UpsertContainerRequest struct {
	DisplayName  string     `json:"displayName"`
	ParentRef    string     `json:"parentRef,omitempty"`
	ResponseText string     `json:"responseText"`
	SchemaText   string     `json:"schemaText"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// Upsert handles PUT /v1/containers/{containerId}
func (h *ContainerHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	containerID := mux.Vars(r)["containerId"]
	if containerID == "" {
		writeError(w, http.StatusBadRequest, "containerId is required")
		return
	}

	var req UpsertContainerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	container := &model.Container{
		ID:           containerID,
		DisplayName:  req.DisplayName,
		ParentRef:    req.ParentRef,
		ResponseText: req.ResponseText,
		SchemaText:   req.SchemaText,
		CompletedAt:  req.CompletedAt,
	}
	if err := h.records.UpsertContainer(r.Context(), container); err != nil {
		h.log.Error("failed to store container", "container", containerID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, container)
}

// Reconcile handles POST /v1/containers/{containerId}/reconcile
// Query parameters: simulate, recompletion, inventory (boolean).
func (h *ContainerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	containerID := mux.Vars(r)["containerId"]
	if containerID == "" {
		writeError(w, http.StatusBadRequest, "containerId is required")
		return
	}

	opts := service.Options{
		Simulate:     boolParam(r, "simulate"),
		Recompletion: boolParam(r, "recompletion"),
		Inventory:    boolParam(r, "inventory"),
	}

	result, err := h.reconciler.Reconcile(r.Context(), containerID, opts)
	if err != nil {
		h.log.Error("reconciliation failed", "container", containerID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Report handles GET /v1/containers/{containerId}/report
func (h *ContainerHandler) Report(w http.ResponseWriter, r *http.Request) {
	containerID := mux.Vars(r)["containerId"]
	if containerID == "" {
		writeError(w, http.StatusBadRequest, "containerId is required")
		return
	}

	report, err := h.reports.Get(r.Context(), containerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "no report for container")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Records handles GET /v1/containers/{containerId}/records
func (h *ContainerHandler) Records(w http.ResponseWriter, r *http.Request) {
	containerID := mux.Vars(r)["containerId"]
	if containerID == "" {
		writeError(w, http.StatusBadRequest, "containerId is required")
		return
	}

	records, err := h.records.ListByContainer(r.Context(), containerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*model.AnswerRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}

func boolParam(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
