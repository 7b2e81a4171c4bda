package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/service"
)

// UserHandler serves /api/users on the reservation service.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(us *service.UserService) *UserHandler {
	if us == nil {
		panic("nil service passed to NewUserHandler")
	}
	return &UserHandler{Users: us}
}

func (h *UserHandler) writeUser(c echo.Context, status int, u *model.User, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status, toUserDTO(*u))
}

// Create handles POST /api/users.
func (h *UserHandler) Create(c echo.Context) error {
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	u, err := h.Users.Create(c.Request().Context(), service.UserInput{
		UserID:    req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	return h.writeUser(c, http.StatusCreated, u, err)
}

// List handles GET /api/users.
func (h *UserHandler) List(c echo.Context) error {
	us, err := h.Users.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]UserDTO, 0, len(us))
	for _, u := range us {
		out = append(out, toUserDTO(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	u, err := h.Users.Get(c.Request().Context(), id)
	return h.writeUser(c, http.StatusOK, u, err)
}

// GetByUserID handles GET /api/users/by-user-id/:userId.
func (h *UserHandler) GetByUserID(c echo.Context) error {
	u, err := h.Users.GetByUserID(c.Request().Context(), c.Param("userId"))
	return h.writeUser(c, http.StatusOK, u, err)
}

// GetByEmail handles GET /api/users/by-email/:email.
func (h *UserHandler) GetByEmail(c echo.Context) error {
	u, err := h.Users.GetByEmail(c.Request().Context(), c.Param("email"))
	return h.writeUser(c, http.StatusOK, u, err)
}

// Update handles PUT /api/users/:id.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	u, err := h.Users.Update(c.Request().Context(), id, service.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	return h.writeUser(c, http.StatusOK, u, err)
}

// Delete handles DELETE /api/users/:id.  The user's reservations go with it.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
