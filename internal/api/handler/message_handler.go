package handler

import (
	"net/http"

	"mini_one/internal/api/middleware"
	"mini_one/internal/app/service"
	"mini_one/internal/common"

	"github.com/go-chi/chi/v5"
)

type MessageHandler struct {
	messageService *service.MessageService
	errors         common.ErrorResponder
}

func NewMessageHandler(messageService *service.MessageService, errs common.ErrorResponder) *MessageHandler {
	return &MessageHandler{messageService: messageService, errors: errs}
}

// RegisterRoutes mounts the listing publicly and every mutation behind
// requireAuth.
func (h *MessageHandler) RegisterRoutes(requireAuth func(http.Handler) http.Handler) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.list)

		r.Group(func(authed chi.Router) {
			authed.Use(requireAuth)
			authed.Post("/", h.create)
			authed.Put("/{messageID}", h.update)
			authed.Delete("/{messageID}", h.delete)
		})
	}
}

func (h *MessageHandler) list(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messageService.List(r.Context())
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.errors.Respond(w, r, common.ErrUnauthorized)
		return
	}

	var req service.CreateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	msg, err := h.messageService.Create(r.Context(), user.ID, req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.errors.Respond(w, r, common.ErrUnauthorized)
		return
	}

	var req service.UpdateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Respond(w, r, err)
		return
	}

	msg, err := h.messageService.Update(r.Context(), user.ID, chi.URLParam(r, "messageID"), req)
	if err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, msg)
}

func (h *MessageHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.errors.Respond(w, r, common.ErrUnauthorized)
		return
	}

	if err := h.messageService.Delete(r.Context(), user.ID, chi.URLParam(r, "messageID")); err != nil {
		h.errors.Respond(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Message deleted successfully"})
}
