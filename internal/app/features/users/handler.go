// internal/app/features/users/handler.go
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clubnexus/clubnexus/internal/app/cascade"
	"github.com/clubnexus/clubnexus/internal/app/features/shared"
	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
	"github.com/clubnexus/clubnexus/internal/app/system/authn"
	"github.com/clubnexus/clubnexus/internal/app/system/normalize"
	"github.com/clubnexus/clubnexus/internal/domain/models"
)

// Handler is the feature-level handler for user accounts. All mutations
// go through the cascade engine; this layer only decodes, authorizes,
// and maps errors to status codes.
type Handler struct {
	Engine *cascade.Engine
	Log    *zap.Logger
}

func NewHandler(engine *cascade.Engine, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Log: logger}
}

type createRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Type      string `json:"type" validate:"required"`
	SchoolID  string `json:"schoolID"`
}

// HandleCreate handles POST /users (admin).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	created, err := h.Engine.CreateUser(r.Context(), models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Type:      req.Type,
		SchoolID:  req.SchoolID,
	})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, created)
}

// ServeList handles GET /users (admin).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Engine.ListUsers(r.Context())
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, users)
}

// ServeGet handles GET /users/{email} (admin or self).
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	email := normalize.Email(chi.URLParam(r, "email"))
	if !h.adminOrSelf(r, email) {
		shared.Error(w, h.Log, apierr.New(apierr.Forbidden, "forbidden"))
		return
	}

	user, err := h.Engine.GetUser(r.Context(), email)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, user)
}

type updateRequest struct {
	Value string `json:"value" validate:"required"`
}

// HandleUpdate handles PUT /users/{email}/{field} (admin or self; type
// changes are admin only). The email and type fields fan out through
// their cascades; everything else is a direct edit.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	email := normalize.Email(chi.URLParam(r, "email"))
	field := chi.URLParam(r, "field")

	var req updateRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	requester, _ := authn.CurrentUser(r)
	var err error
	switch field {
	case "type":
		if requester == nil || requester.Type != models.TypeAdmin {
			shared.Error(w, h.Log, apierr.New(apierr.Forbidden, "forbidden"))
			return
		}
		err = h.Engine.ChangeUserType(r.Context(), email, req.Value)
	case "email":
		if !h.adminOrSelf(r, email) {
			shared.Error(w, h.Log, apierr.New(apierr.Forbidden, "forbidden"))
			return
		}
		err = h.Engine.RenameUserEmail(r.Context(), email, req.Value)
	default:
		if !h.adminOrSelf(r, email) {
			shared.Error(w, h.Log, apierr.New(apierr.Forbidden, "forbidden"))
			return
		}
		err = h.Engine.UpdateUserField(r.Context(), email, field, req.Value)
	}
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleDelete handles DELETE /users/{email} (admin).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	email := normalize.Email(chi.URLParam(r, "email"))
	if err := h.Engine.DeleteUser(r.Context(), email); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) adminOrSelf(r *http.Request, email string) bool {
	u, ok := authn.CurrentUser(r)
	if !ok {
		return false
	}
	return u.Type == models.TypeAdmin || u.Email == email
}
