package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	membershipdomain "highspirit-app-go/internal/domain/membership"
	"highspirit-app-go/internal/spreadsheet"
)

type customerProfileRequest struct {
	FullName    string   `json:"full_name" validate:"required,max=200"`
	Phone       string   `json:"phone" validate:"max=32"`
	Email       *string  `json:"email" validate:"omitempty,email"`
	Address     string   `json:"address" validate:"max=500"`
	Gender      string   `json:"gender" validate:"max=32"`
	BloodGroup  string   `json:"blood_group" validate:"max=8"`
	WeightKG    *float64 `json:"weight_kg" validate:"omitempty,gte=0,lte=500"`
	Height      string   `json:"height" validate:"max=32"`
	Occupation  string   `json:"occupation" validate:"max=100"`
	Shift       string   `json:"shift" validate:"max=32"`
	Remarks     string   `json:"remarks" validate:"max=2000"`
	DateOfBirth string   `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Photo       []byte   `json:"photo"`
}

type createCustomerRequest struct {
	customerProfileRequest
	JoinDate  string `json:"join_date" validate:"omitempty,datetime=2006-01-02"`
	PlanName  string `json:"plan_name" validate:"max=100"`
	PaidPrice int    `json:"paid_price" validate:"gte=0"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Duration  int    `json:"duration" validate:"required,gte=1,lte=120"`
}

type updateCustomerRequest struct {
	customerProfileRequest
	PlanName  *string `json:"plan_name" validate:"omitempty,max=100"`
	PaidPrice *int    `json:"paid_price" validate:"omitempty,gte=0"`
}

type customerResponse struct {
	ID          string              `json:"id"`
	FullName    string              `json:"full_name"`
	Phone       string              `json:"phone"`
	Email       *string             `json:"email"`
	Address     string              `json:"address"`
	Gender      string              `json:"gender"`
	BloodGroup  string              `json:"blood_group"`
	WeightKG    *float64            `json:"weight_kg"`
	Height      string              `json:"height"`
	Occupation  string              `json:"occupation"`
	Shift       string              `json:"shift"`
	Remarks     string              `json:"remarks"`
	JoinDate    string              `json:"join_date"`
	DateOfBirth *string             `json:"date_of_birth"`
	Current     *membershipResponse `json:"current_membership"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type customerDetailResponse struct {
	customerResponse
	HasPhoto    bool                 `json:"has_photo"`
	Memberships []membershipResponse `json:"memberships"`
}

type customerListResponse struct {
	Items      []customerResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

func (h *Handlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, ok := membershipdomain.ParseStatusFilter(query.Get("filter"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "filter must be one of all, active, expired, soon")
		return
	}
	sort, ok := membershipdomain.ParseSortOrder(query.Get("sort"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "sort must be one of name, name_desc, expire, expire_desc")
		return
	}
	page, err := parseIntParam(query.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}
	pageSize, err := parseIntParam(query.Get("page_size"), h.opts.PageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page_size")
		return
	}

	result, err := h.Customers.ListCustomers(r.Context(), membershipdomain.ListQuery{
		Search:   query.Get("search"),
		Filter:   filter,
		Sort:     sort,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]customerResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, toCustomerResponse(item.Customer, item.Current))
	}

	writeJSON(w, http.StatusOK, customerListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func (h *Handlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	profile, err := req.customerProfileRequest.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	joinDate, err := parseDateParam(req.JoinDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid join_date")
		return
	}
	startDate, err := parseDateParam(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid start_date")
		return
	}

	created, err := h.Customers.CreateCustomer(r.Context(), membershipdomain.CreateCustomerInput{
		Profile:  profile,
		JoinDate: joinDate,
		Plan: membershipdomain.PlanInput{
			PlanName:  req.PlanName,
			PaidPrice: req.PaidPrice,
			StartDate: startDate,
			Duration:  req.Duration,
		},
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.invalidateDashboard(r)
	writeJSON(w, http.StatusCreated, toCustomerDetailResponse(created))
}

func (h *Handlers) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.Customers.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCustomerDetailResponse(customer))
}

func (h *Handlers) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req updateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	profile, err := req.customerProfileRequest.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := h.Customers.UpdateCustomer(r.Context(), membershipdomain.UpdateCustomerInput{
		ID:        chi.URLParam(r, "id"),
		Profile:   profile,
		PlanName:  req.PlanName,
		PaidPrice: req.PaidPrice,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.invalidateDashboard(r)
	writeJSON(w, http.StatusOK, toCustomerDetailResponse(updated))
}

func (h *Handlers) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.Customers.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.invalidateDashboard(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CustomerPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.Customers.CustomerPhoto(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writePhoto(w, photo)
}

func (h *Handlers) ExportCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Customers.ExportCustomers(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteCustomerBackup(&buf, customers); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("gym-members-%s.xlsx", h.Customers.Calendar().Today().Format(dateLayout))
	writeWorkbook(w, filename, buf.Bytes())
}

func (req customerProfileRequest) toInput() (membershipdomain.CustomerProfileInput, error) {
	dob, err := parseDateParam(req.DateOfBirth)
	if err != nil {
		return membershipdomain.CustomerProfileInput{}, fmt.Errorf("invalid date_of_birth")
	}

	return membershipdomain.CustomerProfileInput{
		FullName:    req.FullName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Gender:      req.Gender,
		BloodGroup:  req.BloodGroup,
		WeightKG:    req.WeightKG,
		Height:      req.Height,
		Occupation:  req.Occupation,
		Shift:       req.Shift,
		Remarks:     req.Remarks,
		DateOfBirth: dob,
		Photo:       req.Photo,
	}, nil
}

func toCustomerResponse(customer membershipdomain.Customer, current *membershipdomain.MembershipView) customerResponse {
	response := customerResponse{
		ID:          customer.ID,
		FullName:    customer.FullName,
		Phone:       customer.Phone,
		Email:       customer.Email,
		Address:     customer.Address,
		Gender:      customer.Gender,
		BloodGroup:  customer.BloodGroup,
		WeightKG:    customer.WeightKG,
		Height:      customer.Height,
		Occupation:  customer.Occupation,
		Shift:       customer.Shift,
		Remarks:     customer.Remarks,
		JoinDate:    formatDate(customer.JoinDate),
		DateOfBirth: formatDatePtr(customer.DateOfBirth),
		CreatedAt:   customer.CreatedAt,
		UpdatedAt:   customer.UpdatedAt,
	}
	if current != nil {
		item := toMembershipResponse(*current)
		response.Current = &item
	}
	return response
}

func toCustomerDetailResponse(detail *membershipdomain.CustomerDetail) customerDetailResponse {
	memberships := make([]membershipResponse, 0, len(detail.Memberships))
	for _, m := range detail.Memberships {
		memberships = append(memberships, toMembershipResponse(m))
	}

	return customerDetailResponse{
		customerResponse: toCustomerResponse(detail.Customer, detail.Current),
		HasPhoto:         len(detail.Photo) > 0,
		Memberships:      memberships,
	}
}

func writePhoto(w http.ResponseWriter, photo []byte) {
	w.Header().Set("Content-Type", http.DetectContentType(photo))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(photo)
}

func writeWorkbook(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
