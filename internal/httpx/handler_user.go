package httpx

import (
	"net/http"

	"aqsit-be/internal/notification"
	"aqsit-be/internal/user"
	"aqsit-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	users         user.Service
	notifications notification.Service
}

func NewUserHandler(users user.Service, notifications notification.Service) *UserHandler {
	return &UserHandler{users: users, notifications: notifications}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID           uint   `json:"id"`
		Email        string `json:"email"`
		Role         string `json:"role"`
		Verification string `json:"verification"`
	} `json:"user"`
}

func newAuthResponse(token string, u user.User) authResponse {
	var resp authResponse
	resp.Token = token
	resp.User.ID = u.ID
	resp.User.Email = u.Email
	resp.User.Role = string(u.Role)
	resp.User.Verification = string(u.Verification)
	return resp
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		Fail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, u, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusCreated, newAuthResponse(token, u))
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, u, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, newAuthResponse(token, u))
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, newAuthResponse("", u).User)
}

type verifyRequest struct {
	Status string `json:"status"`
}

// Verify is admin-only; routing enforces the role.
func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	targetID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		Fail(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req verifyRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.Verify(r.Context(), targetID, user.VerificationStatus(req.Status)); err != nil {
		Error(r.Context(), w, err)
		return
	}

	msg := "Your account has been verified"
	if user.VerificationStatus(req.Status) == user.VerificationRejected {
		msg = "Your account verification was rejected"
	}
	h.notifications.NotifyUser(r.Context(), targetID, msg, "/me")

	OK(w, http.StatusOK, map[string]any{"user_id": targetID, "verification": req.Status})
}

type shippingAddressRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Postal   string `json:"postal"`
	Country  string `json:"country"`
}

func (h *UserHandler) SaveShippingAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req shippingAddressRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Address1 == "" || req.City == "" {
		Fail(w, http.StatusBadRequest, "address line and city are required")
		return
	}

	addr := &user.ShippingAddress{
		UserID:   userID,
		Name:     req.Name,
		Phone:    req.Phone,
		Address1: req.Address1,
		City:     req.City,
		Postal:   req.Postal,
		Country:  req.Country,
	}
	if req.Address2 != "" {
		addr.Address2 = utils.StrPtr(req.Address2)
	}
	if err := h.users.SaveShippingAddress(r.Context(), addr); err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, addr)
}

func (h *UserHandler) GetShippingAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	addr, err := h.users.ShippingAddress(r.Context(), userID)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, addr)
}
