package handler

import (
	"net/http"

	"mini_one/internal/app/service"
	"mini_one/internal/common"
	"mini_one/internal/common/security"
	"mini_one/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	accountService *service.AccountService
	cookies        CookieSettings
	errors         common.ErrorResponder
}

func NewAuthHandler(accountService *service.AccountService, cookies CookieSettings, errs common.ErrorResponder) *AuthHandler {
	return &AuthHandler{accountService: accountService, cookies: cookies, errors: errs}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
}

type meResponse struct {
	User *model.PublicUser `json:"user"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	res, err := h.accountService.Register(r.Context(), req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	h.cookies.set(w, res.Token)
	common.RespondWithJSON(w, http.StatusCreated, res.User)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	res, err := h.accountService.Login(r.Context(), req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	h.cookies.set(w, res.Token)
	common.RespondWithJSON(w, http.StatusOK, res.User)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.clear(w)
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Logged out"})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	token := security.FindToken(r, h.cookies.Name)
	user := h.accountService.CurrentUser(r.Context(), token)
	common.RespondWithJSON(w, http.StatusOK, meResponse{User: user})
}
