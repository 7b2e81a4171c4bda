package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/service"
)

// Error codes returned in the "error" field of failure responses.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeBusiness     = "BUSINESS_ERROR"
	CodeCollaborator = "COLLABORATOR_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx answer produced here.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps a service error kind onto an HTTP status and code.
// Unclassified errors are logged and reported as 500 without detail.
func writeError(c echo.Context, err error) error {
	var status int
	var code string
	switch {
	case errors.Is(err, service.ErrValidation):
		status, code = http.StatusBadRequest, CodeValidation
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, service.ErrBusiness):
		status, code = http.StatusConflict, CodeBusiness
	case errors.Is(err, service.ErrCollaborator):
		c.Logger().Warnf("%s %s: %v", c.Request().Method, c.Path(), err)
		status, code = http.StatusBadGateway, CodeCollaborator
	default:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: CodeInternal, Message: "internal error"})
	}
	return c.JSON(status, ErrorResponse{Error: code, Message: service.Message(err)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: CodeValidation, Message: msg})
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func queryFloat(c echo.Context, name string) (*float64, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.New("query parameter " + name + " must be a number")
	}
	return &f, nil
}

func queryInt(c echo.Context, name string) (*int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.New("query parameter " + name + " must be an integer")
	}
	return &n, nil
}
