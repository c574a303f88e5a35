package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// UserHandler handles account, login and password endpoints.
type UserHandler struct {
	auth  ports.AuthService
	users ports.UserService
}

func NewUserHandler(auth ports.AuthService, users ports.UserService) *UserHandler {
	return &UserHandler{auth: auth, users: users}
}

// --- Request / Response types (documentation only; bodies are schema-validated) ---

type registerRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

type requestPasswordRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	UserData *domain.User `json:"userData"`
	Token    string       `json:"token"`
}

type banResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// Register creates a new customer account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	user, err := h.auth.Register(c.Request().Context(), toRegisterInput(middleware.PayloadFrom(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	p := middleware.PayloadFrom(c)
	res, err := h.auth.Login(c.Request().Context(), p.String("email"), p.String("password"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{UserData: res.User, Token: res.Token})
}

// List returns every account.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Profile returns the caller's own account.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update changes profile fields of an account.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "User id"
// @Param        body  body      registerRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.Update(c.Request().Context(), id, c.Param("id"), toUpdateUserInput(middleware.PayloadFrom(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes an account.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword replaces a password after checking the current one.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /users/password [patch]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	p := middleware.PayloadFrom(c)
	user, err := h.auth.ChangePassword(c.Request().Context(), p.String("email"), p.String("password"), p.String("newPassword"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// RequestPassword resets a password to the configured one-time password.
//
// @Summary      Reset password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      requestPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /users/password [post]
func (h *UserHandler) RequestPassword(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	msg, err := h.auth.ResetPassword(c.Request().Context(), id, middleware.PayloadFrom(c).String("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Ban blocks an account from every gated route.
//
// @Summary      Ban a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200  {object}  banResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/{id}/ban [post]
func (h *UserHandler) Ban(c echo.Context) error {
	return h.setBanned(c, true, "User banned successfully!")
}

// Unban lifts a ban.
//
// @Summary      Unban a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200  {object}  banResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/{id}/unban [post]
func (h *UserHandler) Unban(c echo.Context) error {
	return h.setBanned(c, false, "User unbanned successfully!")
}

func (h *UserHandler) setBanned(c echo.Context, banned bool, msg string) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.SetBanned(c.Request().Context(), id, c.Param("id"), banned)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, banResponse{Message: msg, User: user})
}
