package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	membershipdomain "highspirit-app-go/internal/domain/membership"
)

type addMembershipRequest struct {
	PlanName  string `json:"plan_name" validate:"max=100"`
	PaidPrice int    `json:"paid_price" validate:"gte=0"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	Duration  int    `json:"duration" validate:"required,gte=1,lte=120"`
}

type renewMembershipRequest struct {
	PlanName  string `json:"plan_name" validate:"max=100"`
	PaidPrice int    `json:"paid_price" validate:"gte=0"`
	Duration  int    `json:"duration" validate:"required,gte=1,lte=120"`
}

type membershipResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	PlanName   string `json:"plan_name"`
	PaidPrice  int    `json:"paid_price"`
	StartDate  string `json:"start_date"`
	Duration   int    `json:"duration"`
	ExpireDate string `json:"expire_date"`
	DueDays    int    `json:"due_days"`
	Status     string `json:"status"`
	IsActive   bool   `json:"is_active"`
}

func (h *Handlers) CurrentMembership(w http.ResponseWriter, r *http.Request) {
	view, err := h.Customers.CurrentMembership(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMembershipResponse(*view))
}

func (h *Handlers) AddMembership(w http.ResponseWriter, r *http.Request) {
	var req addMembershipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	startDate, err := parseDateParam(req.StartDate)
	if err != nil || startDate == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid start_date")
		return
	}

	view, err := h.Customers.AddMembership(r.Context(), membershipdomain.AddMembershipInput{
		CustomerID: chi.URLParam(r, "id"),
		PlanName:   req.PlanName,
		PaidPrice:  req.PaidPrice,
		StartDate:  *startDate,
		Duration:   req.Duration,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.invalidateDashboard(r)
	writeJSON(w, http.StatusCreated, toMembershipResponse(*view))
}

func (h *Handlers) RenewMembership(w http.ResponseWriter, r *http.Request) {
	var req renewMembershipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	view, err := h.Customers.Renew(r.Context(), membershipdomain.RenewInput{
		CustomerID: chi.URLParam(r, "id"),
		PlanName:   req.PlanName,
		PaidPrice:  req.PaidPrice,
		Duration:   req.Duration,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.invalidateDashboard(r)
	writeJSON(w, http.StatusCreated, toMembershipResponse(*view))
}

func toMembershipResponse(view membershipdomain.MembershipView) membershipResponse {
	return membershipResponse{
		ID:         view.ID,
		CustomerID: view.CustomerID,
		PlanName:   view.PlanName,
		PaidPrice:  view.PaidPrice,
		StartDate:  formatDate(view.StartDate),
		Duration:   view.Duration,
		ExpireDate: formatDate(view.ExpireDate),
		DueDays:    view.DueDaysComputed,
		Status:     string(view.Status),
		IsActive:   view.IsActive,
	}
}
