package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/cache"
	"task-tracker-api/internal/database"
	"task-tracker-api/internal/logger"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
}

// loginLimiter locks a username/IP pair out after repeated bad passwords.
var loginLimiter = cache.NewAttemptLimiter(10, 15*time.Minute)

// Login exchanges valid credentials for a JWT
// POST /login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	attemptKey := strings.ToLower(req.Username) + "|" + c.ClientIP()
	if !loginLimiter.Allow(attemptKey) {
		c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many login attempts, try again later"})
		return
	}

	var user models.User
	err := database.GetDB().WithContext(c.Request.Context()).Where("username = ?", req.Username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.WithRequestID(logger.Logger, middleware.GetRequestID(c)).WithError(err).Error("login lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to log in"})
		return
	}
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		loginLimiter.Fail(attemptKey)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	loginLimiter.Reset(attemptKey)

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		logger.WithRequestID(logger.Logger, middleware.GetRequestID(c)).WithError(err).Error("generate token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
	})
}
