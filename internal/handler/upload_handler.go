package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const imageUploadDir = "images"

// UploadImage 处理团队照片、新闻封面等通用图片上传。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image is required")
		return
	}

	stored, err := a.store.SaveImage(imageUploadDir, file)
	if err != nil {
		if respondUploadError(c, err) {
			return
		}
		a.respondInternal(c, err, "failed to save image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":    stored.URL,
		"width":  stored.Width,
		"height": stored.Height,
		"size":   stored.Size,
	})
}
