package handler

import (
	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/deppfellow/gym-sessions/internal/service"
	"github.com/labstack/echo/v4"
)

const registeredMessage = "User registered successfully!"

// JWTResponse is returned by a successful login.
type JWTResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Admin     bool   `json:"admin"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AuthHandler struct {
	Handler
	auth *service.AuthService
}

func NewAuthHandler(s *server.Server, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		auth:    auth,
	}
}

func (h *AuthHandler) Login(c echo.Context, req *LoginRequest) (*JWTResponse, error) {
	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return nil, mapError(err)
	}

	return &JWTResponse{
		Token:     result.Token,
		Type:      "Bearer",
		ID:        result.User.ID,
		Username:  result.User.Email,
		FirstName: result.User.FirstName,
		LastName:  result.User.LastName,
		Admin:     result.User.Admin,
	}, nil
}

func (h *AuthHandler) Register(c echo.Context, req *RegisterRequest) (*MessageResponse, error) {
	_, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &MessageResponse{Message: registeredMessage}, nil
}
