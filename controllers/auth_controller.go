package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/guard"
	"github.com/kuvagram/api-go/metrics"
	"github.com/kuvagram/api-go/models"
	"github.com/kuvagram/api-go/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB       *gorm.DB
	Sessions session.Store
	Cookies  *session.Cookies
}

func NewAuthController(db *gorm.DB, sessions session.Store, cookies *session.Cookies) *AuthController {
	return &AuthController{DB: db, Sessions: sessions, Cookies: cookies}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required,username"`
		Name     string `json:"name" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		Username:     input.Username,
		Name:         input.Name,
		PasswordHash: string(hashedPassword),
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": user})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := ac.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		metrics.IncLogin("failure")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	// Disabled accounts cannot log in at all; existing sessions are cut off
	// by the viewer resolver on their next request.
	if user.Disabled {
		metrics.IncLogin("disabled")
		c.JSON(http.StatusBadRequest, gin.H{"error": guard.MsgUserDisabled})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		metrics.IncLogin("failure")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := ac.Sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}
	if err := ac.Cookies.Issue(c.Writer, c.Request, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	metrics.IncLogin("success")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if token, ok := ac.Cookies.Token(c.Request); ok {
		if err := ac.Sessions.Destroy(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not destroy session"})
			return
		}
	}
	_ = ac.Cookies.Clear(c.Writer, c.Request)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
