// internal/app/features/clubs/handler.go
package clubs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clubnexus/clubnexus/internal/app/cascade"
	"github.com/clubnexus/clubnexus/internal/app/features/shared"
	"github.com/clubnexus/clubnexus/internal/app/system/normalize"
	"github.com/clubnexus/clubnexus/internal/domain/models"
)

// Handler is the feature-level handler for clubs and their membership
// tiers. All mutations go through the cascade engine.
type Handler struct {
	Engine *cascade.Engine
	Log    *zap.Logger
}

func NewHandler(engine *cascade.Engine, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Log: logger}
}

type createRequest struct {
	Name        string `json:"name" validate:"required"`
	Dates       string `json:"dates" validate:"required"`
	Picture     string `json:"picture"`
	Description string `json:"description"`
}

// HandleCreate handles POST /clubs (admin).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	created, err := h.Engine.CreateClub(r.Context(), models.Club{
		Name:        req.Name,
		Dates:       req.Dates,
		Picture:     req.Picture,
		Description: req.Description,
	})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, created)
}

// ServeGet handles GET /clubs/{name}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	club, err := h.Engine.GetClub(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, club)
}

type updateRequest struct {
	Value string `json:"value" validate:"required"`
}

// HandleUpdate handles PUT /clubs/{name}/{field} (admin). A name change
// fans out through the rename cascade; everything else is a direct
// edit.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	name := normalize.Name(chi.URLParam(r, "name"))
	field := chi.URLParam(r, "field")

	var req updateRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	var err error
	if field == "name" {
		err = h.Engine.RenameClub(r.Context(), name, req.Value)
	} else {
		err = h.Engine.UpdateClubField(r.Context(), name, field, req.Value)
	}
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleDelete handles DELETE /clubs/{name} (admin).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.DeleteClub(r.Context(), chi.URLParam(r, "name")); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type memberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

// HandleAddMember handles POST /clubs/{name}/members (admin).
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	if err := h.Engine.AddMember(r.Context(), chi.URLParam(r, "name"), req.Email, req.Role); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleRemoveMember handles DELETE /clubs/{name}/members/{email} (admin).
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	email := chi.URLParam(r, "email")
	if err := h.Engine.RemoveMember(r.Context(), name, email); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
