package handler

import (
	"errors"
	"net/http"

	"github.com/fundhouse/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验管理员账号并写入会话。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "username and password are required") {
		return
	}

	user, err := a.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid username or password")
			return
		}
		a.respondInternal(c, err, "failed to sign in")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		a.respondInternal(c, err, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": user.ID, "username": user.Username}})
}

// Logout 清除会话。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		a.respondInternal(c, err, "failed to clear session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Me returns the signed-in user.
func (a *API) Me(c *gin.Context) {
	session := sessions.Default(c)
	userID, ok := session.Get(sessionUserIDKey).(uint)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := a.auth.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		a.respondInternal(c, err, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": user.ID, "username": user.Username}})
}

// Dashboard 返回后台首页的统计数据。
func (a *API) Dashboard(c *gin.Context) {
	counts := []struct {
		key   string
		count func() (int64, error)
	}{
		{"funds", a.funds.Count},
		{"prices", a.prices.Count},
		{"reports", a.reports.Count},
		{"news", a.news.Count},
		{"unreadMessages", a.contact.UnreadCount},
	}

	stats := gin.H{}
	for _, item := range counts {
		value, err := item.count()
		if err != nil {
			a.respondInternal(c, err, "failed to load dashboard")
			return
		}
		stats[item.key] = value
	}

	c.JSON(http.StatusOK, gin.H{
		"username": sessions.Default(c).Get(sessionUsernameKey),
		"stats":    stats,
	})
}

// AuthRequired 拒绝没有登录会话的请求。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionUserIDKey) == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}
