package handlers

import (
	"net/http"
	"strings"
	"time"

	"task-tracker-api/internal/database"
	"task-tracker-api/internal/logger"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateProjectRequest represents the payload for POST /projects
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

// GetProjects handles GET /projects
func GetProjects(c *gin.Context) {
	projects := make([]models.Project, 0)
	if err := database.GetDB().WithContext(c.Request.Context()).Find(&projects).Error; err != nil {
		logger.WithRequestID(logger.Logger, middleware.GetRequestID(c)).WithError(err).Error("getProjects failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

// CreateProject handles POST /projects
func CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name is required"})
		return
	}

	var startDate, endDate *time.Time
	var ok bool
	if startDate, ok = optionalDate(req.StartDate); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "startDate must be a valid date"})
		return
	}
	if endDate, ok = optionalDate(req.EndDate); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "endDate must be a valid date"})
		return
	}

	project := models.Project{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if err := database.GetDB().WithContext(c.Request.Context()).Create(&project).Error; err != nil {
		logger.WithRequestID(logger.Logger, middleware.GetRequestID(c)).WithError(err).Error("createProject failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}
