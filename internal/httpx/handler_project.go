package httpx

import (
	"net/http"

	"aqsit-be/internal/project"
	"aqsit-be/internal/utils"
)

type ProjectHandler struct {
	projects project.Repository
}

func NewProjectHandler(projects project.Repository) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type createProjectRequest struct {
	Name string `json:"name"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createProjectRequest
	if err := decode(r, &req); err != nil {
		Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		Fail(w, http.StatusBadRequest, "name is required")
		return
	}

	p, err := h.projects.Create(r.Context(), userID, req.Name)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusCreated, p)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	projects, err := h.projects.ListByUser(r.Context(), userID)
	if err != nil {
		Error(r.Context(), w, err)
		return
	}
	OK(w, http.StatusOK, projects)
}
