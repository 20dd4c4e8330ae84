package handler

import (
	"github.com/deppfellow/gym-sessions/internal/mapper"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/deppfellow/gym-sessions/internal/service"
	"github.com/labstack/echo/v4"
)

type TeacherHandler struct {
	Handler
	teachers *service.TeacherService
	mapper   mapper.TeacherMapper
}

func NewTeacherHandler(s *server.Server, teachers *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{
		Handler:  NewHandler(s),
		teachers: teachers,
	}
}

func (h *TeacherHandler) FindAll(c echo.Context, _ *EmptyRequest) ([]model.TeacherDTO, error) {
	teachers, err := h.teachers.FindAll(c.Request().Context())
	if err != nil {
		return nil, mapError(err)
	}
	return h.mapper.ToDTOs(teachers), nil
}

func (h *TeacherHandler) FindByID(c echo.Context, req *IDRequest) (model.TeacherDTO, error) {
	teacher, err := h.teachers.FindByID(c.Request().Context(), req.ID)
	if err != nil {
		return model.TeacherDTO{}, mapError(err)
	}
	return h.mapper.ToDTO(teacher), nil
}

func (h *TeacherHandler) Create(c echo.Context, req *CreateTeacherRequest) (model.TeacherDTO, error) {
	created, err := h.teachers.Create(c.Request().Context(), h.mapper.ToEntity(req.toDTO()))
	if err != nil {
		return model.TeacherDTO{}, mapError(err)
	}
	return h.mapper.ToDTO(created), nil
}

func (h *TeacherHandler) Update(c echo.Context, req *UpdateTeacherRequest) (model.TeacherDTO, error) {
	updated, err := h.teachers.Update(c.Request().Context(), req.ID, h.mapper.ToEntity(req.toDTO()))
	if err != nil {
		return model.TeacherDTO{}, mapError(err)
	}
	return h.mapper.ToDTO(updated), nil
}

func (h *TeacherHandler) Delete(c echo.Context, req *IDRequest) error {
	return mapError(h.teachers.Delete(c.Request().Context(), req.ID))
}

func (b TeacherBody) toDTO() model.TeacherDTO {
	return model.TeacherDTO{
		FirstName: b.FirstName,
		LastName:  b.LastName,
	}
}
