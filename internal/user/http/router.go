package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/AlibekovAA/user-api/internal/common/config"
	commonerrors "github.com/AlibekovAA/user-api/internal/common/errors"
	"github.com/AlibekovAA/user-api/internal/common/errreport"
	commonhttp "github.com/AlibekovAA/user-api/internal/common/http"
	"github.com/AlibekovAA/user-api/internal/common/logger"
	"github.com/AlibekovAA/user-api/internal/user/service"
)

type Handler struct {
	users        *service.UserService
	log          *logger.Logger
	errorHandler *commonhttp.ErrorHandler
}

type route struct {
	pattern string
	handler http.HandlerFunc
}

// NewHandler serves /users and /users/{id}. Mount it on both paths.
func NewHandler(users *service.UserService, cfg config.UsersConfig, log *logger.Logger, reporter errreport.Reporter) http.Handler {
	h := &Handler{
		users:        users,
		log:          log,
		errorHandler: commonhttp.NewErrorHandler(log, reporter),
	}

	routes := []route{
		{pattern: "GET /users", handler: h.list},
		{pattern: "POST /users", handler: h.create},
		{pattern: "GET /users/{id}", handler: h.get},
		{pattern: "PUT /users/{id}", handler: h.update},
		{pattern: "DELETE /users/{id}", handler: h.delete},
	}

	withTimeout := commonhttp.WithTimeout(cfg.RequestTimeout)
	mux := http.NewServeMux()
	for _, rt := range routes {
		mux.HandleFunc(rt.pattern, withTimeout(rt.handler))
	}
	return mux
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	input, err := parseListInput(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	users, err := h.users.List(r.Context(), input)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toResponses(users))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeUser(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateInput{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/users/"+user.ID.String())
	commonhttp.WriteJSON(w, http.StatusCreated, toResponse(user))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.ParseUUID(r.PathValue("id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toResponse(user))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.ParseUUID(r.PathValue("id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req, err := h.decodeUser(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, service.UpdateInput{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toResponse(user))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.ParseUUID(r.PathValue("id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeUser(r *http.Request) (userRequest, error) {
	var req userRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return userRequest{}, ErrRequestTooLarge.WithCause(err)
		}
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "invalid_user_payload",
			"method": r.Method,
		}).Debugf("invalid user payload: %v", err)
		return userRequest{}, commonerrors.ErrInvalidPayload.WithCause(err)
	}
	return req, nil
}

func parseListInput(q url.Values) (service.ListInput, error) {
	rawLimit := q.Get("limit")
	if rawLimit == "" {
		return service.ListInput{}, service.ErrLimitRequired
	}
	limit, err := strconv.Atoi(rawLimit)
	if err != nil {
		return service.ListInput{}, service.ErrInvalidLimit.WithCause(err)
	}

	offset := 0
	if rawOffset := q.Get("offset"); rawOffset != "" {
		offset, err = strconv.Atoi(rawOffset)
		if err != nil {
			return service.ListInput{}, service.ErrInvalidOffset.WithCause(err)
		}
	}

	return service.ListInput{Limit: limit, Offset: offset}, nil
}
