package handler

import (
	"errors"
	"net/http"

	"github.com/fundhouse/internal/service"
	"github.com/gin-gonic/gin"
)

type branchRequest struct {
	Name         string `json:"name" binding:"required,max=120"`
	Address      string `json:"address"`
	City         string `json:"city" binding:"max=80"`
	Phone        string `json:"phone" binding:"max=40"`
	Email        string `json:"email" binding:"omitempty,email"`
	OpeningHours string `json:"openingHours"`
	MapURL       string `json:"mapUrl" binding:"omitempty,url"`
	SortOrder    int    `json:"sortOrder"`
	IsActive     *bool  `json:"isActive"`
}

func (r branchRequest) toInput() service.BranchInput {
	return service.BranchInput{
		Name:         r.Name,
		Address:      r.Address,
		City:         r.City,
		Phone:        r.Phone,
		Email:        r.Email,
		OpeningHours: r.OpeningHours,
		MapURL:       r.MapURL,
		SortOrder:    r.SortOrder,
		IsActive:     r.IsActive,
	}
}

// ListPublicBranches 返回启用中的网点。
func (a *API) ListPublicBranches(c *gin.Context) {
	branches, err := a.branches.List(true)
	if err != nil {
		a.respondInternal(c, err, "failed to load branches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"branches": branches})
}

// ListBranches 返回全部网点。
func (a *API) ListBranches(c *gin.Context) {
	branches, err := a.branches.List(false)
	if err != nil {
		a.respondInternal(c, err, "failed to load branches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"branches": branches})
}

// GetBranch 按 ID 返回网点。
func (a *API) GetBranch(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid branch id")
		return
	}

	branch, err := a.branches.Get(id)
	if err != nil {
		a.respondBranchError(c, err, "failed to load branch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"branch": branch})
}

// CreateBranch 新增网点。
func (a *API) CreateBranch(c *gin.Context) {
	var req branchRequest
	if !bindJSON(c, &req, "invalid branch payload") {
		return
	}

	branch, err := a.branches.Create(req.toInput())
	if err != nil {
		a.respondBranchError(c, err, "failed to create branch")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"branch": branch})
}

// UpdateBranch 更新网点。
func (a *API) UpdateBranch(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid branch id")
		return
	}

	var req branchRequest
	if !bindJSON(c, &req, "invalid branch payload") {
		return
	}

	branch, err := a.branches.Update(id, req.toInput())
	if err != nil {
		a.respondBranchError(c, err, "failed to update branch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"branch": branch})
}

// DeleteBranch 删除网点。
func (a *API) DeleteBranch(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid branch id")
		return
	}

	if err := a.branches.Delete(id); err != nil {
		a.respondBranchError(c, err, "failed to delete branch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "branch deleted"})
}

func (a *API) respondBranchError(c *gin.Context, err error, message string) {
	switch {
	case respondInvalid(c, err):
	case errors.Is(err, service.ErrBranchNotFound):
		respondError(c, http.StatusNotFound, "branch not found")
	case errors.Is(err, service.ErrBranchExists):
		respondError(c, http.StatusConflict, "branch already exists")
	default:
		a.respondInternal(c, err, message)
	}
}
