package httpx

import (
	"fmt"
	"net/http"

	"aqsit-be/internal/notification"
	"aqsit-be/internal/pricing"
	"aqsit-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type PricingHandler struct {
	requests      pricing.Service
	notifications notification.Service
}

func NewPricingHandler(requests pricing.Service, notifications notification.Service) *PricingHandler {
	return &PricingHandler{requests: requests, notifications: notifications}
}

type askPricingRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

func (h *PricingHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askPricingRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == 0 {
		Fail(w, http.StatusBadRequest, "product_id is required")
		return
	}

	created, err := h.requests.AskForPricing(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}

	h.notifications.NotifyAdmins(r.Context(),
		fmt.Sprintf("New pricing request from %s", utils.GetUserEmailFromContext(r.Context())),
		fmt.Sprintf("/pricing/%d", created.ID))

	OK(w, http.StatusCreated, created)
}

type sendPricingRequest struct {
	Price float64 `json:"price"`
}

// Send is the admin quote, completing the pending request.
func (h *PricingHandler) Send(w http.ResponseWriter, r *http.Request) {
	requestID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid pricing request id")
		return
	}

	var req sendPricingRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.requests.SendPricing(r.Context(), requestID, req.Price); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{"request_id": requestID, "status": pricing.StatusCompleted})
}

func (h *PricingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.ListMyRequests(r.Context())
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, requests)
}

func (h *PricingHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.ListPending(r.Context())
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, requests)
}
