package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/ai-session-hub/db"
)

// GetProjects returns all registered projects
func (h *Handlers) GetProjects(c *gin.Context) {
	projects, err := db.ListProjects()
	if err != nil {
		RespondInternalError(c, "failed to list projects: "+err.Error())
		return
	}

	RespondList(c, projects)
}

type createProjectRequest struct {
	Slug string `json:"slug" binding:"required"`
	Name string `json:"name"`
}

// CreateProject registers a new project slug
func (h *Handlers) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	req.Slug = strings.TrimSpace(strings.ToLower(req.Slug))
	if req.Slug == "" {
		RespondBadRequest(c, "slug is required")
		return
	}
	if req.Name == "" {
		req.Name = req.Slug
	}

	existing, err := db.GetProjectBySlug(req.Slug)
	if err != nil {
		RespondInternalError(c, "failed to check project: "+err.Error())
		return
	}
	if existing != nil {
		RespondConflict(c, "project already exists: "+req.Slug)
		return
	}

	project, err := db.CreateProject(req.Slug, req.Name)
	if err != nil {
		RespondInternalError(c, "failed to create project: "+err.Error())
		return
	}

	RespondCreated(c, project)
}
