package handlers

import (
	"net/http"
	"strings"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/database"
	"task-tracker-api/internal/logger"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateUserRequest represents the payload for POST /users
type CreateUserRequest struct {
	Username          string  `json:"username" binding:"required"`
	Password          string  `json:"password" binding:"required"`
	ProfilePictureURL *string `json:"profilePictureUrl"`
}

// GetUsers returns all users
// GET /users
func GetUsers(c *gin.Context) {
	users := make([]models.User, 0)
	if err := database.GetDB().WithContext(c.Request.Context()).Find(&users).Error; err != nil {
		logger.WithRequestID(logger.Logger, middleware.GetRequestID(c)).WithError(err).Error("getUsers failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser registers a user with a bcrypt-hashed password
// POST /users
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.WithRequestID(logger.Logger, middleware.GetRequestID(c)).WithError(err).Error("hash password failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}

	user := models.User{
		Username:          strings.TrimSpace(req.Username),
		Password:          hash,
		ProfilePictureURL: req.ProfilePictureURL,
	}
	if err := database.GetDB().WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		// unique violation on username lands here too
		logger.WithRequestID(logger.Logger, middleware.GetRequestID(c)).WithError(err).Error("createUser failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}
