package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"curator/internal/pagination"
	"curator/internal/response"
	"curator/internal/service"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	categories service.CategoryService
}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler(categories service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CategoryRequest names a category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CategoryPage is one page of the category search.
type CategoryPage struct {
	Pagination pagination.Pagination `json:"pagination"`
	Data       []CategoryResponse    `json:"data"`
}

// Search godoc
// @Summary Search categories
// @Tags categories
// @Produce json
// @Param category query string false "Substring of the name"
// @Param page query int false "Page, 1-based" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} response.Envelope{data=CategoryPage}
// @Failure 422 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *CategoryHandler) Search(c echo.Context) error {
	var name string
	page, limit := 1, defaultCategoryPageSize
	err := echo.QueryParamsBinder(c).
		String("category", &name).
		Int("page", &page).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.categories.Search(c.Request().Context(), name, page, limit)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Categories retrieved!", CategoryPage{
		Pagination: result.Pagination,
		Data:       newCategoryResponses(result.Data),
	})
}

// Get godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.Envelope{data=CategoryResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.categories.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Category retrieved!", CategoryResponse{ID: category.ID, Name: category.Name})
}

// Create godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "Category"
// @Success 201 {object} response.Envelope{data=CategoryResponse}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} response.ValidationResponse
// @Router /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req CategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, "Category created!", CategoryResponse{ID: category.ID, Name: category.Name})
}

// Update godoc
// @Summary Rename a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body CategoryRequest true "Category"
// @Success 200 {object} response.Envelope{data=CategoryResponse}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories/{id} [patch]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req CategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Update(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Category updated!", CategoryResponse{ID: category.ID, Name: category.Name})
}

// Delete godoc
// @Summary Delete a category
// @Description Categories that still own articles cannot be deleted.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.categories.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Category deleted!", nil)
}
