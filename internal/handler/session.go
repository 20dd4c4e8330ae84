package handler

import (
	"github.com/deppfellow/gym-sessions/internal/mapper"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/deppfellow/gym-sessions/internal/service"
	"github.com/labstack/echo/v4"
)

type SessionHandler struct {
	Handler
	sessions *service.SessionService
	mapper   *mapper.SessionMapper
}

func NewSessionHandler(s *server.Server, sessions *service.SessionService, m *mapper.SessionMapper) *SessionHandler {
	return &SessionHandler{
		Handler:  NewHandler(s),
		sessions: sessions,
		mapper:   m,
	}
}

func (h *SessionHandler) FindByID(c echo.Context, req *IDRequest) (model.SessionDTO, error) {
	session, err := h.sessions.FindByID(c.Request().Context(), req.ID)
	if err != nil {
		return model.SessionDTO{}, mapError(err)
	}
	return h.mapper.ToDTO(session), nil
}

func (h *SessionHandler) FindAll(c echo.Context, _ *EmptyRequest) ([]model.SessionDTO, error) {
	sessions, err := h.sessions.FindAll(c.Request().Context())
	if err != nil {
		return nil, mapError(err)
	}
	return h.mapper.ToDTOs(sessions), nil
}

func (h *SessionHandler) Create(c echo.Context, req *CreateSessionRequest) (model.SessionDTO, error) {
	ctx := c.Request().Context()

	session, err := h.mapper.ToEntity(ctx, req.toDTO(0))
	if err != nil {
		return model.SessionDTO{}, mapError(err)
	}

	created, err := h.sessions.Create(ctx, session)
	if err != nil {
		return model.SessionDTO{}, mapError(err)
	}
	return h.mapper.ToDTO(created), nil
}

func (h *SessionHandler) Update(c echo.Context, req *UpdateSessionRequest) (model.SessionDTO, error) {
	ctx := c.Request().Context()

	session, err := h.mapper.ToEntity(ctx, req.toDTO(req.ID))
	if err != nil {
		return model.SessionDTO{}, mapError(err)
	}

	updated, err := h.sessions.Update(ctx, req.ID, session)
	if err != nil {
		return model.SessionDTO{}, mapError(err)
	}
	return h.mapper.ToDTO(updated), nil
}

func (h *SessionHandler) Delete(c echo.Context, req *IDRequest) error {
	return mapError(h.sessions.Delete(c.Request().Context(), req.ID))
}

func (h *SessionHandler) Participate(c echo.Context, req *ParticipationRequest) error {
	return mapError(h.sessions.Participate(c.Request().Context(), req.ID, req.UserID))
}

func (h *SessionHandler) NoLongerParticipate(c echo.Context, req *ParticipationRequest) error {
	return mapError(h.sessions.NoLongerParticipate(c.Request().Context(), req.ID, req.UserID))
}

func (b SessionBody) toDTO(id int64) model.SessionDTO {
	dto := model.SessionDTO{
		ID:          id,
		Name:        b.Name,
		TeacherID:   b.TeacherID,
		Description: b.Description,
		Users:       b.Users,
	}
	if b.Date != nil {
		dto.Date = *b.Date
	}
	return dto
}
