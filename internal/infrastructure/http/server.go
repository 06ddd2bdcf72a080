package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"taskguard-service/internal/application"
	"taskguard-service/internal/domain"
	infraconfig "taskguard-service/internal/infrastructure/config"

	"github.com/oapi-codegen/runtime"
)

type Server struct {
	svc  *application.GuardService
	ping func(ctx context.Context) error
}

func NewServer(svc *application.GuardService) *Server { return &Server{svc: svc} }

// SetReadyCheck wires a dependency probe (usually the DB ping) into /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

type runRequest struct {
	Task string `json:"task"`
	Arg  string `json:"arg"`
}

type runResponse struct {
	RunID string `json:"run_id"`
}

type runDetails struct {
	RunID     string    `json:"run_id"`
	Task      string    `json:"task"`
	Status    runState  `json:"status"`
	Result    *string   `json:"result"`
	Error     *string   `json:"error"`
	UpdatedAt time.Time `json:"updated_at"`
}

type panicReportBody struct {
	RunID      string    `json:"run_id"`
	Task       string    `json:"task"`
	Value      string    `json:"value"`
	Stack      string    `json:"stack"`
	OccurredAt time.Time `json:"occurred_at"`
}

type runState string

const (
	statePending   runState = "pending"
	stateCompleted runState = "completed"
	stateFailed    runState = "failed"
)

func (s *Server) RequestRun(w http.ResponseWriter, r *http.Request) {
	var body runRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if body.Task == "" {
		badRequest(w, "task is required")
		return
	}
	if !domain.ValidateTaskName(body.Task) {
		badRequest(w, "malformed task name")
		return
	}
	var idemKey *string
	if k := r.Header.Get("X-Idempotency-Key"); k != "" {
		idemKey = &k
	}
	id, err := s.svc.RequestRun(r.Context(), body.Task, body.Arg, idemKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownTask):
			badRequest(w, "unknown task")
		case errors.Is(err, application.ErrConflict):
			writeError(w, http.StatusConflict, "duplicate idempotency key")
		default:
			internalError(w)
		}
		return
	}
	writeJSON(w, http.StatusAccepted, runResponse{RunID: id})
}

func (s *Server) GetRun(w http.ResponseWriter, r *http.Request, id string) {
	run, err := s.svc.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			notFound(w)
			return
		}
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, runDetails{
		RunID:     run.ID,
		Task:      string(run.Task),
		Status:    mapStatus(run.Status),
		Result:    run.Result,
		Error:     run.Error,
		UpdatedAt: run.UpdatedAt,
	})
}

func (s *Server) GetRunReport(w http.ResponseWriter, r *http.Request, id string) {
	rep, err := s.svc.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			notFound(w)
			return
		}
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, reportBody(rep))
}

func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	limit := infraconfig.DefaultReportListLimit
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		badRequest(w, "invalid limit")
		return
	}
	if limit <= 0 || limit > 100 {
		badRequest(w, "limit must be between 1 and 100")
		return
	}
	reps, err := s.svc.ListReports(r.Context(), limit)
	if err != nil {
		internalError(w)
		return
	}
	out := make([]panicReportBody, 0, len(reps))
	for _, rep := range reps {
		out = append(out, reportBody(rep))
	}
	writeJSON(w, http.StatusOK, out)
}

func reportBody(rep domain.PanicReport) panicReportBody {
	return panicReportBody{
		RunID:      rep.RunID,
		Task:       string(rep.Task),
		Value:      rep.Value,
		Stack:      rep.Stack,
		OccurredAt: rep.OccurredAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorEnvelope{Code: code, Message: msg})
}

func mapStatus(s domain.RunStatus) runState {
	switch s {
	case domain.RunStatusDone:
		return stateCompleted
	case domain.RunStatusFailed:
		return stateFailed
	default:
		return statePending
	}
}
