package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/academy-service/internal/middleware"
	"github.com/Dan9191/academy-service/internal/models"
	"github.com/Dan9191/academy-service/internal/report"
	"github.com/Dan9191/academy-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Warn("Failed to write response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, models.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, models.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, models.ErrAlreadyExists), errors.Is(err, models.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	default:
		h.log.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
	}
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(models.ErrInvalidInput, err)
	}
	return nil
}

func userID(r *http.Request) (string, error) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		return "", models.ErrUnauthorized
	}
	return id, nil
}

// referenceDate reads the optional ?date=YYYY-MM-DD parameter, defaulting to today
func (h *Handler) referenceDate(r *http.Request) (time.Time, error) {
	if v := r.URL.Query().Get("date"); v != "" {
		return h.svc.ParseDate(v)
	}
	return h.svc.Today(), nil
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.svc.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	token, err := h.svc.Login(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Dashboard computes the dashboard for the requested date
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ref, err := h.referenceDate(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.svc.Dashboard(r.Context(), uid, ref)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

// LatestDashboard returns the last computed dashboard without recomputing
func (h *Handler) LatestDashboard(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.svc.LatestDashboard(uid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

// DashboardReport exports the dashboard as XML
func (h *Handler) DashboardReport(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ref, err := h.referenceDate(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.svc.Dashboard(r.Context(), uid, ref)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := report.DashboardXML(d)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(out)
}

// ListStudents returns a page of students
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	filter := models.StudentFilter{
		Status: models.StudentStatus(q.Get("status")),
		Search: q.Get("search"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	page, err := h.svc.ListStudents(r.Context(), uid, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, page)
}

// CreateStudent enrolls a student
func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in models.StudentInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	st, err := h.svc.CreateStudent(r.Context(), uid, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, st)
}

// GetStudent returns one student
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	st, err := h.svc.GetStudent(r.Context(), uid, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

// UpdateStudent replaces a student's editable fields
func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in models.StudentInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	st, err := h.svc.UpdateStudent(r.Context(), uid, mux.Vars(r)["id"], in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

// StudentFinancial returns a student's payments and standing
func (h *Handler) StudentFinancial(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ref, err := h.referenceDate(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	summary, err := h.svc.StudentFinancial(r.Context(), uid, mux.Vars(r)["id"], ref)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// OverdueStudents lists the students currently overdue
func (h *Handler) OverdueStudents(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ref, err := h.referenceDate(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	overdue, symbol, err := h.svc.OverdueStudents(r.Context(), uid, ref)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"students":        overdue,
		"currency_symbol": symbol,
	})
}

// CreatePayment registers a pending charge for a student
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in models.PaymentInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.CreatePayment(r.Context(), uid, mux.Vars(r)["id"], in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

// ConfirmPayment settles a payment
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in models.ConfirmPaymentInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.ConfirmPayment(r.Context(), uid, mux.Vars(r)["id"], in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

// GetSettings returns the organization settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	settings, err := h.svc.GetSettings(r.Context(), uid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings saves the organization settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in models.SettingsInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	settings, err := h.svc.UpdateSettings(r.Context(), uid, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}
