package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fundhouse/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type newsRequest struct {
	Title         string     `json:"title" binding:"required,max=200"`
	Slug          string     `json:"slug" binding:"omitempty,slug,max=220"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content" binding:"required"`
	CoverImageURL string     `json:"coverImageUrl" binding:"max=255"`
	Status        string     `json:"status" binding:"omitempty,oneof=draft published"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

func (r newsRequest) toInput() service.NewsInput {
	return service.NewsInput{
		Title:         r.Title,
		Slug:          r.Slug,
		Excerpt:       r.Excerpt,
		Content:       r.Content,
		CoverImageURL: r.CoverImageURL,
		Status:        r.Status,
		PublishedAt:   r.PublishedAt,
	}
}

// ListPublishedNews 分页返回已发布的新闻。
func (a *API) ListPublishedNews(c *gin.Context) {
	page, perPage := parsePaging(c)
	result, err := a.news.ListPublished(page, perPage)
	if err != nil {
		a.respondInternal(c, err, "failed to load news")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPublishedNews 按 slug 返回已发布新闻，正文渲染为 HTML。
func (a *API) GetPublishedNews(c *gin.Context) {
	post, err := a.news.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		a.respondNewsError(c, err, "failed to load news")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// ListNews 返回后台新闻列表。
func (a *API) ListNews(c *gin.Context) {
	page, perPage := parsePaging(c)
	result, err := a.news.List(service.NewsFilter{
		Status:  c.Query("status"),
		Search:  c.Query("search"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		a.respondInternal(c, err, "failed to load news")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetNews 按 ID 返回新闻。
func (a *API) GetNews(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid news id")
		return
	}

	post, err := a.news.Get(id)
	if err != nil {
		a.respondNewsError(c, err, "failed to load news")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreateNews 创建新闻。
func (a *API) CreateNews(c *gin.Context) {
	var req newsRequest
	if !bindJSON(c, &req, "invalid news payload") {
		return
	}

	post, err := a.news.Create(req.toInput())
	if err != nil {
		a.respondNewsError(c, err, "failed to create news")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdateNews 更新新闻。
func (a *API) UpdateNews(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid news id")
		return
	}

	var req newsRequest
	if !bindJSON(c, &req, "invalid news payload") {
		return
	}

	post, err := a.news.Update(id, req.toInput())
	if err != nil {
		a.respondNewsError(c, err, "failed to update news")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeleteNews 软删除新闻并清理图片文件。
func (a *API) DeleteNews(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid news id")
		return
	}

	if err := a.news.Delete(id); err != nil {
		if !errors.Is(err, service.ErrNewsFileCleanup) {
			a.respondNewsError(c, err, "failed to delete news")
			return
		}
		// 记录已删除，仅文件清理失败
		a.logger.Warn("news file cleanup failed", zap.Uint("newsId", id), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"message": "news deleted"})
}

// AddNewsImage 为新闻上传配图。
func (a *API) AddNewsImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid news id")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image is required")
		return
	}

	image, err := a.news.AddImage(id, file, c.PostForm("caption"))
	if err != nil {
		a.respondNewsError(c, err, "failed to upload image")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": image})
}

// DeleteNewsImage 删除新闻配图。
func (a *API) DeleteNewsImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid news id")
		return
	}
	imageID, err := parseUintParam(c, "imageId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image id")
		return
	}

	if err := a.news.RemoveImage(id, imageID); err != nil {
		a.respondNewsError(c, err, "failed to delete image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}

func (a *API) respondNewsError(c *gin.Context, err error, message string) {
	switch {
	case respondInvalid(c, err):
	case respondUploadError(c, err):
	case errors.Is(err, service.ErrNewsNotFound):
		respondError(c, http.StatusNotFound, "news not found")
	case errors.Is(err, service.ErrNewsImageNotFound):
		respondError(c, http.StatusNotFound, "image not found")
	default:
		a.respondInternal(c, err, message)
	}
}
