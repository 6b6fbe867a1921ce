package httpx

import (
	"net/http"

	"aqsit-be/internal/sample"

	"github.com/go-chi/chi/v5"
)

type SampleHandler struct {
	samples sample.Service
}

func NewSampleHandler(samples sample.Service) *SampleHandler {
	return &SampleHandler{samples: samples}
}

type createSampleOrderRequest struct {
	MoodboardID uint `json:"moodboard_id"`
}

func (h *SampleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSampleOrderRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MoodboardID == 0 {
		Fail(w, http.StatusBadRequest, "moodboard_id is required")
		return
	}

	created, err := h.samples.CreateSampleOrder(r.Context(), req.MoodboardID)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusCreated, created)
}

type sampleStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus is the admin delivery transition.
func (h *SampleHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req sampleStatusRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target := sample.Status(req.Status)
	if !target.Valid() {
		Fail(w, http.StatusBadRequest, "invalid sample order status")
		return
	}

	if err := h.samples.UpdateStatus(r.Context(), orderID, target); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{"order_id": orderID, "status": target})
}

func (h *SampleHandler) RequestExtension(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	if err := h.samples.RequestExtension(r.Context(), orderID); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{"order_id": orderID, "extend_request": sample.ExtendRequested})
}

func (h *SampleHandler) ApproveExtension(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	if err := h.samples.ApproveExtension(r.Context(), orderID); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{"order_id": orderID, "extend_request": sample.ExtendApproved})
}

func (h *SampleHandler) RejectExtension(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	if err := h.samples.RejectExtension(r.Context(), orderID); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{"order_id": orderID, "extend_request": sample.ExtendRejected})
}

func (h *SampleHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.samples.ListMyOrders(r.Context())
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, orders)
}

func (h *SampleHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	d, err := h.samples.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, d)
}
