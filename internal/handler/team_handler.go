package handler

import (
	"errors"
	"net/http"

	"github.com/fundhouse/internal/service"
	"github.com/gin-gonic/gin"
)

type teamMemberRequest struct {
	Name        string `json:"name" binding:"required,max=120"`
	Position    string `json:"position" binding:"required,max=120"`
	Group       string `json:"group"`
	Bio         string `json:"bio"`
	PhotoURL    string `json:"photoUrl" binding:"omitempty,max=255"`
	LinkedInURL string `json:"linkedInUrl" binding:"omitempty,url"`
	SortOrder   *int   `json:"sortOrder"`
	IsActive    *bool  `json:"isActive"`
}

type reorderRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

func (r teamMemberRequest) toInput() service.TeamMemberInput {
	return service.TeamMemberInput{
		Name:        r.Name,
		Position:    r.Position,
		Group:       r.Group,
		Bio:         r.Bio,
		PhotoURL:    r.PhotoURL,
		LinkedInURL: r.LinkedInURL,
		SortOrder:   r.SortOrder,
		IsActive:    r.IsActive,
	}
}

// ListPublicTeam 返回前台展示的团队成员。
func (a *API) ListPublicTeam(c *gin.Context) {
	members, err := a.team.List(c.Query("group"), true)
	if err != nil {
		a.respondInternal(c, err, "failed to load team")
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// ListTeamMembers 返回后台团队成员列表。
func (a *API) ListTeamMembers(c *gin.Context) {
	members, err := a.team.List(c.Query("group"), false)
	if err != nil {
		a.respondInternal(c, err, "failed to load team")
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// GetTeamMember 按 ID 返回团队成员。
func (a *API) GetTeamMember(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid team member id")
		return
	}

	member, err := a.team.Get(id)
	if err != nil {
		a.respondTeamError(c, err, "failed to load team member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

// CreateTeamMember 新增团队成员。
func (a *API) CreateTeamMember(c *gin.Context) {
	var req teamMemberRequest
	if !bindJSON(c, &req, "invalid team member payload") {
		return
	}

	member, err := a.team.Create(req.toInput())
	if err != nil {
		a.respondTeamError(c, err, "failed to create team member")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// UpdateTeamMember 更新团队成员。
func (a *API) UpdateTeamMember(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid team member id")
		return
	}

	var req teamMemberRequest
	if !bindJSON(c, &req, "invalid team member payload") {
		return
	}

	member, err := a.team.Update(id, req.toInput())
	if err != nil {
		a.respondTeamError(c, err, "failed to update team member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

// DeleteTeamMember 删除团队成员。
func (a *API) DeleteTeamMember(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid team member id")
		return
	}

	if err := a.team.Delete(id); err != nil {
		a.respondTeamError(c, err, "failed to delete team member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "team member deleted"})
}

// ReorderTeamMembers 按提交的 ID 顺序更新排序。
func (a *API) ReorderTeamMembers(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req, "ids are required") {
		return
	}

	if err := a.team.Reorder(req.IDs); err != nil {
		a.respondTeamError(c, err, "failed to reorder team")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order updated"})
}

func (a *API) respondTeamError(c *gin.Context, err error, message string) {
	switch {
	case respondInvalid(c, err):
	case errors.Is(err, service.ErrTeamOrder):
		respondError(c, http.StatusBadRequest, "invalid order")
	case errors.Is(err, service.ErrTeamMemberNotFound):
		respondError(c, http.StatusNotFound, "team member not found")
	default:
		a.respondInternal(c, err, message)
	}
}
