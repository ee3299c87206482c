// internal/app/features/notes/handler.go
package notes

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/clubnexus/clubnexus/internal/app/cascade"
	"github.com/clubnexus/clubnexus/internal/app/features/shared"
	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
	"github.com/clubnexus/clubnexus/internal/app/system/authn"
)

// Handler serves note reads and body updates. Access decisions live in
// the engine's policy check; this layer only identifies the requester.
type Handler struct {
	Engine *cascade.Engine
	Log    *zap.Logger
}

func NewHandler(engine *cascade.Engine, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Log: logger}
}

// ServeGet handles GET /notes?member=…&club=…&type=…. For personal
// notes the requester is the implicit creator.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	requester, ok := authn.CurrentUser(r)
	if !ok {
		shared.Error(w, h.Log, apierr.New(apierr.Unauthenticated, "authentication required"))
		return
	}

	q := r.URL.Query()
	note, err := h.Engine.ReadNote(r.Context(), cascade.NoteRef{
		RequesterEmail: requester.Email,
		MemberEmail:    q.Get("member"),
		ClubName:       q.Get("club"),
		Type:           q.Get("type"),
	})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, note)
}

type writeRequest struct {
	MemberEmail string `json:"memberEmail" validate:"required,email"`
	ClubName    string `json:"clubName" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Note        string `json:"note" validate:"required"`
}

// HandleWrite handles PUT /notes, replacing the note body.
func (h *Handler) HandleWrite(w http.ResponseWriter, r *http.Request) {
	requester, ok := authn.CurrentUser(r)
	if !ok {
		shared.Error(w, h.Log, apierr.New(apierr.Unauthenticated, "authentication required"))
		return
	}

	var req writeRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	ref := cascade.NoteRef{
		RequesterEmail: requester.Email,
		MemberEmail:    req.MemberEmail,
		ClubName:       req.ClubName,
		Type:           req.Type,
	}
	if err := h.Engine.WriteNote(r.Context(), ref, req.Note); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
