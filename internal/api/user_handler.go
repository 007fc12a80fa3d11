package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/userdir-io/userdir/internal/api/shared"
	"github.com/userdir-io/userdir/internal/service"
	"github.com/userdir-io/userdir/internal/store"
)

// Pagination defaults applied when the query parameters are absent.
const (
	defaultPage    = 1
	defaultPerPage = 10
)

// UserHandler handles the user directory API requests.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List handles GET /api/users with page and limit query parameters.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	query, fieldErrors := parseListQuery(r)
	if fieldErrors != nil {
		shared.RespondWithValidationErrors(w, r, fieldErrors)
		return
	}

	page, err := h.userService.List(r.Context(), query.Page, query.Limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithPage(w, r, page.Users, &shared.Pagination{
		CurrentPage: page.CurrentPage,
		PerPage:     page.PerPage,
		Total:       page.Total,
		TotalPages:  page.TotalPages,
	})
}

// Create handles POST /api/users. Same field contract as registration,
// without token issuance.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.FieldErrors(err))
		return
	}

	user, err := h.userService.Create(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithDetailedError(w, r, http.StatusConflict,
				"Email already exists", "The email address is already in use")
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, "User created successfully", user)
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to retrieve user", err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", user)
}

// Update handles PUT and PATCH /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.FieldErrors(err))
		return
	}

	user, err := h.userService.Update(r.Context(), id, req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
		case errors.Is(err, store.ErrEmailExists):
			shared.RespondWithDetailedError(w, r, http.StatusConflict,
				"Email already exists", "The email address is already in use")
		default:
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
				GetSafeErrorMessage(err), err)
		}
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "User updated successfully", user)
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	deleted, err := h.userService.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to delete user", err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "User deleted successfully", DeleteData{
		DeletedRows: deleted,
	})
}

// parseUserID extracts and validates the {id} path parameter. Non-numeric
// and non-positive values are rejected before any persistence call; the
// 400 response is written here and the caller just returns.
func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return 0, false
	}
	return id, true
}

// parseListQuery reads the page and limit query parameters, applying
// defaults and validating the allowed ranges.
func parseListQuery(r *http.Request) (ListUsersQuery, map[string][]string) {
	query := ListUsersQuery{Page: defaultPage, Limit: defaultPerPage}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return query, map[string][]string{"page": {"The page must be an integer."}}
		}
		query.Page = page
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return query, map[string][]string{"limit": {"The limit must be an integer."}}
		}
		query.Limit = limit
	}

	if err := shared.ValidateRequest(query); err != nil {
		return query, shared.FieldErrors(err)
	}
	return query, nil
}
