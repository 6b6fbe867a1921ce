package httpx

import (
	"net/http"

	"aqsit-be/internal/orderref"
	"aqsit-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type BasketHandler struct {
	refs orderref.Repository
}

func NewBasketHandler(refs orderref.Repository) *BasketHandler {
	return &BasketHandler{refs: refs}
}

type addToBasketRequest struct {
	ProductID uint `json:"product_id"`
}

func (h *BasketHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req addToBasketRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == 0 {
		Fail(w, http.StatusBadRequest, "product_id is required")
		return
	}

	ref, err := h.refs.AddToBasket(r.Context(), userID, req.ProductID)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusCreated, ref)
}

func (h *BasketHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	refID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid reference id")
		return
	}

	if err := h.refs.RemoveFromBasket(r.Context(), refID, userID); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{"deleted": refID})
}

func (h *BasketHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	refID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid reference id")
		return
	}

	ref, err := h.refs.GetBasketLine(r.Context(), refID, userID)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, ref)
}

func (h *BasketHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	refs, err := h.refs.ListBasket(r.Context(), userID)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, refs)
}
