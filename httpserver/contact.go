package httpserver

import (
	"contactbook/errs"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterContactRoutes(g *echo.Group) {
	g.GET("", s.handleListContacts)
	g.POST("", s.handleAddContact)
	g.PUT("/:id", s.handleUpdateContact)
	g.DELETE("/:id", s.handleDeleteContact)
}

func (s *Server) handleAddContact(c echo.Context) error {
	var req ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	added, err := s.ContactService.AddContact(c.Request().Context(), req.ToContact())
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusCreated, added)
}

func (s *Server) handleUpdateContact(c echo.Context) error {
	var req ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := s.ContactService.UpdateContact(c.Request().Context(), c.Param("id"), req.ToContact())
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, updated)
}

func (s *Server) handleDeleteContact(c echo.Context) error {
	if err := s.ContactService.DeleteContact(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListContacts(c echo.Context) error {
	contacts, err := s.ContactService.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, contacts)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}
	return c.Validate(req)
}
