package httpx

import (
	"net/http"

	"aqsit-be/internal/order"
	"aqsit-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderSetRequest struct {
	ProjectID uint              `json:"project_id"`
	Lines     []order.LineInput `json:"lines"`
}

func (h *OrderHandler) CreateOrderSet(w http.ResponseWriter, r *http.Request) {
	var req createOrderSetRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProjectID == 0 {
		Fail(w, http.StatusBadRequest, "project_id is required")
		return
	}

	result, err := h.orders.CreateOrderSet(r.Context(), req.ProjectID, req.Lines)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusCreated, result)
}

type quoteRequest struct {
	Amount float64 `json:"amount"`
}

func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	orderID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req quoteRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orders.QuoteOrder(r.Context(), orderID, req.Amount); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{"order_id": orderID, "status": order.StatusQuoted})
}

type placeOrderRequest struct {
	TransactionID string `json:"transaction_id"`
}

func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	orderID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req placeOrderRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	warnings, err := h.orders.PlaceOrder(r.Context(), orderID, req.TransactionID)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{
		"order_id": orderID,
		"status":   order.StatusProcessing,
		"warnings": warnings,
	})
}

func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	orderID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orders.MarkDelivered(r.Context(), orderID); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{"order_id": orderID, "status": order.StatusDelivered})
}

type cancelOrdersRequest struct {
	OrderIDs []uint `json:"order_ids"`
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelOrdersRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cancelled, err := h.orders.CancelOrders(r.Context(), req.OrderIDs)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{"cancelled": cancelled})
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListMyOrders(r.Context())
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListBySet(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "setID")

	orders, err := h.orders.ListSetOrders(r.Context(), setID)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	orderID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid order id")
		return
	}

	d, err := h.orders.GetDetail(r.Context(), orderID)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, d)
}

func (h *OrderHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	orderID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid order id")
		return
	}

	txs, err := h.orders.ListTransactions(r.Context(), orderID)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, txs)
}

type orderAddressRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Postal   string `json:"postal"`
	Country  string `json:"country"`
}

func (h *OrderHandler) addressFromRequest(r *http.Request, setID string) (*order.Address, error) {
	var req orderAddressRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	addr := &order.Address{
		OrderSetID: setID,
		Name:       req.Name,
		Phone:      req.Phone,
		Address1:   req.Address1,
		City:       req.City,
		Postal:     req.Postal,
		Country:    req.Country,
	}
	if req.Address2 != "" {
		addr.Address2 = utils.StrPtr(req.Address2)
	}
	return addr, nil
}

func (h *OrderHandler) SetShippingAddress(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "setID")
	addr, err := h.addressFromRequest(r, setID)
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orders.SetShippingAddress(r.Context(), addr); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, addr)
}

func (h *OrderHandler) SetBillingAddress(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "setID")
	addr, err := h.addressFromRequest(r, setID)
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orders.SetBillingAddress(r.Context(), addr); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, addr)
}

func (h *OrderHandler) BillingSameAsShipping(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "setID")

	if err := h.orders.BillingSameAsShipping(r.Context(), setID); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, map[string]any{"order_set_id": setID})
}
