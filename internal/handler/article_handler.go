package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"curator/internal/model"
	"curator/internal/response"
	"curator/internal/service"
)

const defaultArticlePageSize = 10

// ArticleHandler handles article endpoints.
type ArticleHandler struct {
	articles service.ArticleService
}

// NewArticleHandler creates an article handler.
func NewArticleHandler(articles service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// CreateArticleRequest holds a new article. Status defaults to published.
type CreateArticleRequest struct {
	Title      string   `json:"title" validate:"required,max=255"`
	Content    string   `json:"content" validate:"required"`
	Status     string   `json:"status" validate:"omitempty,oneof=published draft archived"`
	Tags       []string `json:"tags" validate:"omitempty,dive,required,max=50"`
	ThumbImage string   `json:"thumb_image" validate:"omitempty,max=255"`
	CoverImage string   `json:"cover_image" validate:"omitempty,max=255"`
	CategoryID uint     `json:"category_id" validate:"required"`
}

// UpdateArticleRequest holds the article fields to change. A missing tags
// field keeps the current tags; an empty list clears them.
type UpdateArticleRequest struct {
	Title      *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Content    *string  `json:"content" validate:"omitempty,min=1"`
	Status     *string  `json:"status" validate:"omitempty,oneof=published draft archived"`
	Tags       []string `json:"tags" validate:"omitempty,dive,required,max=50"`
	ThumbImage *string  `json:"thumb_image" validate:"omitempty,max=255"`
	CoverImage *string  `json:"cover_image" validate:"omitempty,max=255"`
	CategoryID *uint    `json:"category_id" validate:"omitempty,min=1"`
}

// Search godoc
// @Summary Search articles
// @Tags articles
// @Produce json
// @Param keys query string false "Substring of the title"
// @Param category query string false "Category name"
// @Param tag query string false "Tag name"
// @Param status query string false "Only articles in this state" Enums(published, draft, archived)
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {object} response.Envelope{data=ArticleListResponse}
// @Failure 422 {object} errors.ErrorResponse
// @Router /articles [get]
func (h *ArticleHandler) Search(c echo.Context) error {
	q := service.ArticleQuery{Limit: defaultArticlePageSize}
	var status string
	err := echo.QueryParamsBinder(c).
		String("keys", &q.Keys).
		String("category", &q.Category).
		String("tag", &q.Tag).
		String("status", &status).
		Int("limit", &q.Limit).
		Int("offset", &q.Offset).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	q.Status = model.ArticleStatus(status)

	list, err := h.articles.Search(c.Request().Context(), q)
	if err != nil {
		return err
	}
	out := ArticleListResponse{Total: list.Total, Articles: make([]ArticleResponse, 0, len(list.Articles))}
	for i := range list.Articles {
		out.Articles = append(out.Articles, newArticleResponse(&list.Articles[i]))
	}
	return response.JSON(c, http.StatusOK, "Articles retrieved successfully", out)
}

// Get godoc
// @Summary Get an article
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} response.Envelope{data=ArticleResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	article, err := h.articles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Article retrieved successfully", newArticleResponse(article))
}

// Create godoc
// @Summary Create an article
// @Description status: published, draft, archived
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateArticleRequest true "Article"
// @Success 201 {object} response.Envelope{data=ArticleResponse}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} response.ValidationResponse
// @Router /articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req CreateArticleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	article, err := h.articles.Create(c.Request().Context(), p.UserID(), service.ArticleInput{
		Title:      req.Title,
		Content:    req.Content,
		Status:     model.ArticleStatus(req.Status),
		ThumbImage: req.ThumbImage,
		CoverImage: req.CoverImage,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
	})
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, "Article created successfully", newArticleResponse(article))
}

// Update godoc
// @Summary Update an article
// @Description Only the author may update an article.
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param request body UpdateArticleRequest true "Fields to change"
// @Success 200 {object} response.Envelope{data=ArticleResponse}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} response.ValidationResponse
// @Router /articles/{id} [patch]
func (h *ArticleHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateArticleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	patch := service.ArticlePatch{
		Title:      req.Title,
		Content:    req.Content,
		ThumbImage: req.ThumbImage,
		CoverImage: req.CoverImage,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
	}
	if req.Status != nil {
		status := model.ArticleStatus(*req.Status)
		patch.Status = &status
	}

	article, err := h.articles.Update(c.Request().Context(), p.UserID(), id, patch)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Article updated successfully", newArticleResponse(article))
}

// Delete godoc
// @Summary Delete an article
// @Description Only the author may delete an article.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.articles.Delete(c.Request().Context(), p.UserID(), id); err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Article deleted successfully", nil)
}
