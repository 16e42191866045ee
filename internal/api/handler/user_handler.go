package handler

import (
	"encoding/json"
	"net/http"

	"catalog_portal/internal/app/service"
	"catalog_portal/internal/common"
	"catalog_portal/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(us *service.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listUsers)             // GET /api/v1/users
	r.Post("/", h.createUser)           // POST /api/v1/users
	r.Patch("/{userID}", h.updateUser)  // PATCH /api/v1/users/{id}
	r.Delete("/{userID}", h.deleteUser) // DELETE /api/v1/users/{id}
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	out := make([]model.UserSnapshot, 0, len(users))
	for _, u := range users {
		out = append(out, u.Snapshot())
	}
	common.RespondWithJSON(w, http.StatusOK, out)
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, common.MsgBadRequest)
		return
	}
	user, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user.Snapshot())
}

// updateUserPayload distinguishes omitted (and null) fields from empty ones.
type updateUserPayload struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	LastName *string `json:"lastName"`
	Email    *string `json:"email"`
	UserType *string `json:"userType"`
	Password *string `json:"password"`
}

func (p updateUserPayload) patch() model.UserPatch {
	return model.UserPatch{
		Username: model.FromPtr(p.Username),
		Name:     model.FromPtr(p.Name),
		LastName: model.FromPtr(p.LastName),
		Email:    model.FromPtr(p.Email),
		UserType: model.FromPtr(p.UserType),
		Password: model.FromPtr(p.Password),
	}
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, common.MsgBadRequest)
		return
	}
	user, err := h.userService.UpdateUser(r.Context(), chi.URLParam(r, "userID"), req.patch())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user.Snapshot())
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	removed, err := h.userService.DeleteUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": removed})
}
