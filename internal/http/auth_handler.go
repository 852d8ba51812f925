package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/user"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"max=120"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateMeRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=120"`
	Email    *string `json:"email" validate:"omitempty,email,max=120"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if _, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusCreated, "registered")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Profile(r.Context(), currentUser(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), currentUser(r), user.ProfileChanges{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteAccount(r.Context(), currentUser(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "account deleted")
}
