package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DirectoryHandler serves the admin user and category routes
type DirectoryHandler struct {
	service DirectoryServiceInterface
}

func NewDirectoryHandler(s DirectoryServiceInterface) *DirectoryHandler {
	return &DirectoryHandler{service: s}
}

type NewUserRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=250"`
	Email string `json:"email" validate:"required,email,max=254"`
}

type UserResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Rating *float64 `json:"rating"`
}

type NewCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateUser godoc
// @Summary Register a user
// @Tags admin
// @Accept json
// @Produce json
// @Success 201 {object} UserResponse
// @Router /admin/users [post]
func (h *DirectoryHandler) CreateUser(c echo.Context) error {
	var req NewUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.service.CreateUser(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Rating: u.Rating})
}

// CreateCategory godoc
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Success 201 {object} CategoryResponse
// @Router /admin/categories [post]
func (h *DirectoryHandler) CreateCategory(c echo.Context) error {
	var req NewCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.service.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CategoryResponse{ID: cat.ID, Name: cat.Name})
}

// GetCategory godoc
// @Summary Get a category
// @Tags public
// @Produce json
// @Success 200 {object} CategoryResponse
// @Router /categories/{catId} [get]
func (h *DirectoryHandler) GetCategory(c echo.Context) error {
	cat, err := h.service.GetCategory(c.Request().Context(), c.Param("catId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CategoryResponse{ID: cat.ID, Name: cat.Name})
}
