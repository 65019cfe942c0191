package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	boxingdomain "highspirit-app-go/internal/domain/boxing"
)

type boxingMemberRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	JoinDate        string `json:"join_date" validate:"omitempty,datetime=2006-01-02"`
	GuardianName    string `json:"guardian_name" validate:"max=200"`
	GuardianContact string `json:"guardian_contact" validate:"max=64"`
	PerMonthClass   string `json:"per_month_class" validate:"max=64"`
	CashAmount      int    `json:"cash_amount" validate:"gte=0"`
	EsewaAmount     int    `json:"esewa_amount" validate:"gte=0"`
	DueAmount       int    `json:"due_amount" validate:"gte=0"`
	Remarks         string `json:"remarks" validate:"max=2000"`
	Photo           []byte `json:"photo"`
}

type boxingMemberResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	JoinDate        string    `json:"join_date"`
	GuardianName    string    `json:"guardian_name"`
	GuardianContact string    `json:"guardian_contact"`
	PerMonthClass   string    `json:"per_month_class"`
	CashAmount      int       `json:"cash_amount"`
	EsewaAmount     int       `json:"esewa_amount"`
	DueAmount       int       `json:"due_amount"`
	Price           int       `json:"price"`
	Remarks         string    `json:"remarks"`
	HasPhoto        bool      `json:"has_photo"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type boxingListResponse struct {
	Items      []boxingMemberResponse `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

type boxingDuesResponse struct {
	Items []boxingMemberResponse `json:"items"`
	Count int64                  `json:"count"`
}

func (h *Handlers) ListBoxingMembers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

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

	result, err := h.Boxing.ListMembers(r.Context(), boxingdomain.ListQuery{
		Search:   query.Get("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, boxingListResponse{
		Items:      toBoxingMemberResponses(result.Items),
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func (h *Handlers) CreateBoxingMember(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBoxingMember(w, r)
	if !ok {
		return
	}

	member, err := h.Boxing.CreateMember(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.invalidateDashboard(r)
	writeJSON(w, http.StatusCreated, toBoxingMemberResponse(*member))
}

func (h *Handlers) GetBoxingMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.Boxing.GetMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBoxingMemberResponse(*member))
}

func (h *Handlers) UpdateBoxingMember(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBoxingMember(w, r)
	if !ok {
		return
	}

	member, err := h.Boxing.UpdateMember(r.Context(), boxingdomain.UpdateMemberInput{
		ID:          chi.URLParam(r, "id"),
		MemberInput: input,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.invalidateDashboard(r)
	writeJSON(w, http.StatusOK, toBoxingMemberResponse(*member))
}

func (h *Handlers) DeleteBoxingMember(w http.ResponseWriter, r *http.Request) {
	if err := h.Boxing.DeleteMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.invalidateDashboard(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) BoxingMemberPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.Boxing.MemberPhoto(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writePhoto(w, photo)
}

func (h *Handlers) BoxingDues(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r.URL.Query().Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	dues, err := h.Boxing.ListDue(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, boxingDuesResponse{
		Items: toBoxingMemberResponses(dues.Items),
		Count: dues.Count,
	})
}

func decodeBoxingMember(w http.ResponseWriter, r *http.Request) (boxingdomain.MemberInput, bool) {
	var req boxingMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return boxingdomain.MemberInput{}, false
	}
	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return boxingdomain.MemberInput{}, false
	}

	joinDate, err := parseDateParam(req.JoinDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid join_date")
		return boxingdomain.MemberInput{}, false
	}

	return boxingdomain.MemberInput{
		Name:            req.Name,
		JoinDate:        joinDate,
		GuardianName:    req.GuardianName,
		GuardianContact: req.GuardianContact,
		PerMonthClass:   req.PerMonthClass,
		CashAmount:      req.CashAmount,
		EsewaAmount:     req.EsewaAmount,
		DueAmount:       req.DueAmount,
		Remarks:         req.Remarks,
		Photo:           req.Photo,
	}, true
}

func toBoxingMemberResponse(member boxingdomain.Member) boxingMemberResponse {
	return boxingMemberResponse{
		ID:              member.ID,
		Name:            member.Name,
		JoinDate:        formatDate(member.JoinDate),
		GuardianName:    member.GuardianName,
		GuardianContact: member.GuardianContact,
		PerMonthClass:   member.PerMonthClass,
		CashAmount:      member.CashAmount,
		EsewaAmount:     member.EsewaAmount,
		DueAmount:       member.DueAmount,
		Price:           member.Price,
		Remarks:         member.Remarks,
		HasPhoto:        len(member.Photo) > 0,
		CreatedAt:       member.CreatedAt,
		UpdatedAt:       member.UpdatedAt,
	}
}

func toBoxingMemberResponses(members []boxingdomain.Member) []boxingMemberResponse {
	items := make([]boxingMemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, toBoxingMemberResponse(member))
	}
	return items
}
