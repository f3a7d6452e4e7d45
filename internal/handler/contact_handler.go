package handler

import (
	"errors"
	"net/http"

	"github.com/fundhouse/internal/service"
	"github.com/gin-gonic/gin"
)

type contactMessageRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email,max=160"`
	Phone    string `json:"phone" binding:"max=40"`
	Subject  string `json:"subject" binding:"max=200"`
	Message  string `json:"message" binding:"required,max=5000"`
	BranchID *uint  `json:"branchId"`
}

// SubmitContactMessage 接收前台联系表单。
func (a *API) SubmitContactMessage(c *gin.Context) {
	var req contactMessageRequest
	if !bindJSON(c, &req, "invalid contact message") {
		return
	}

	message, err := a.contact.Submit(service.ContactMessageInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
		BranchID: req.BranchID,
	})
	if err != nil {
		a.respondContactError(c, err, "failed to submit message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "message received", "id": message.ID})
}

// ListContactMessages 分页返回联系留言。
func (a *API) ListContactMessages(c *gin.Context) {
	page, perPage := parsePaging(c)
	result, err := a.contact.List(service.ContactMessageFilter{
		UnreadOnly: parseBoolQuery(c, "unread"),
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		a.respondInternal(c, err, "failed to load messages")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetContactMessage 按 ID 返回留言。
func (a *API) GetContactMessage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid message id")
		return
	}

	message, err := a.contact.Get(id)
	if err != nil {
		a.respondContactError(c, err, "failed to load message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"contactMessage": message})
}

// MarkContactMessageRead 将留言标记为已读。
func (a *API) MarkContactMessageRead(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid message id")
		return
	}

	message, err := a.contact.MarkRead(id)
	if err != nil {
		a.respondContactError(c, err, "failed to update message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"contactMessage": message})
}

// DeleteContactMessage 删除留言。
func (a *API) DeleteContactMessage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid message id")
		return
	}

	if err := a.contact.Delete(id); err != nil {
		a.respondContactError(c, err, "failed to delete message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

// GetContactSettings 返回联系方式设置。
func (a *API) GetContactSettings(c *gin.Context) {
	settings, err := a.contact.GetSettings()
	if err != nil {
		a.respondInternal(c, err, "failed to load contact settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateContactSettings 保存联系方式设置。
func (a *API) UpdateContactSettings(c *gin.Context) {
	var payload service.ContactSettings
	if !bindJSON(c, &payload, "invalid contact settings") {
		return
	}

	settings, err := a.contact.UpdateSettings(payload)
	if err != nil {
		a.respondContactError(c, err, "failed to save contact settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (a *API) respondContactError(c *gin.Context, err error, message string) {
	switch {
	case respondInvalid(c, err):
	case errors.Is(err, service.ErrBranchNotFound):
		respondError(c, http.StatusBadRequest, "branch does not exist")
	case errors.Is(err, service.ErrContactMessageNotFound):
		respondError(c, http.StatusNotFound, "message not found")
	default:
		a.respondInternal(c, err, message)
	}
}
