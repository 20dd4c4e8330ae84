package handler

import (
	"github.com/deppfellow/gym-sessions/internal/mapper"
	"github.com/deppfellow/gym-sessions/internal/middleware"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/deppfellow/gym-sessions/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	users  *service.UserService
	mapper mapper.UserMapper
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

func (h *UserHandler) FindByID(c echo.Context, req *IDRequest) (model.UserDTO, error) {
	user, err := h.users.FindByID(c.Request().Context(), req.ID)
	if err != nil {
		return model.UserDTO{}, mapError(err)
	}
	return h.mapper.ToDTO(user), nil
}

// Delete removes the caller's own account.
func (h *UserHandler) Delete(c echo.Context, req *IDRequest) error {
	return mapError(h.users.DeleteSelf(c.Request().Context(), middleware.GetPrincipal(c), req.ID))
}
