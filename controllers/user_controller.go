package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/guard"
	"github.com/kuvagram/api-go/models"
	"github.com/kuvagram/api-go/session"
	"github.com/kuvagram/api-go/storage"
	"gorm.io/gorm"
)

type UserController struct {
	DB       *gorm.DB
	Store    storage.Storage
	Sessions session.Store
	Cookies  *session.Cookies
}

func NewUserController(db *gorm.DB, store storage.Storage, sessions session.Store, cookies *session.Cookies) *UserController {
	return &UserController{DB: db, Store: store, Sessions: sessions, Cookies: cookies}
}

func (uc *UserController) GetUser(c *gin.Context) {
	user := guard.MustFoundUser(c)
	viewer := guard.CurrentViewer(c)
	isOwnProfile := viewer.Authenticated() && viewer.User.ID == user.ID

	var stats struct {
		ImagesCount    int64 `json:"imagesCount"`
		FollowersCount int64 `json:"followersCount"`
		FollowingCount int64 `json:"followingCount"`
	}

	imageQuery := uc.DB.Model(&models.Image{}).Where("owner_id = ?", user.ID)
	if !isOwnProfile {
		imageQuery = imageQuery.Where("privacy = ?", models.ImagePrivacyPublic)
	}
	imageQuery.Count(&stats.ImagesCount)
	uc.DB.Model(&models.Relation{}).Where("target_user_id = ? AND type = ?", user.ID, models.RelationFollow).Count(&stats.FollowersCount)
	uc.DB.Model(&models.Relation{}).Where("source_user_id = ? AND type = ?", user.ID, models.RelationFollow).Count(&stats.FollowingCount)

	var potraitURL string
	var potrait models.Potrait
	if err := uc.DB.Where("owner_id = ?", user.ID).First(&potrait).Error; err == nil {
		potraitURL = uc.Store.URL(potrait.ThumbKey)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":             user.ID,
			"username":       user.Username,
			"name":           user.Name,
			"createdAt":      user.CreatedAt,
			"potraitUrl":     potraitURL,
			"isOwnProfile":   isOwnProfile,
			"imagesCount":    stats.ImagesCount,
			"followersCount": stats.FollowersCount,
			"followingCount": stats.FollowingCount,
		},
	})
}

// DeleteUser removes the account and everything hanging off it: images, the
// potrait, and relations in both directions, all in one transaction. Blob
// deletes run after commit, best-effort.
func (uc *UserController) DeleteUser(c *gin.Context) {
	user := guard.MustFoundUser(c)

	var blobKeys []string

	var images []models.Image
	uc.DB.Where("owner_id = ?", user.ID).Find(&images)
	for _, image := range images {
		blobKeys = append(blobKeys, image.FileKey)
	}

	var potrait models.Potrait
	if err := uc.DB.Where("owner_id = ?", user.ID).First(&potrait).Error; err == nil {
		blobKeys = append(blobKeys, potrait.FileKey, potrait.ThumbKey)
	}

	err := uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", user.ID).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", user.ID).Delete(&models.Potrait{}).Error; err != nil {
			return err
		}
		if err := tx.Where("source_user_id = ? OR target_user_id = ?", user.ID, user.ID).Delete(&models.Relation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete account"})
		return
	}

	for _, key := range blobKeys {
		if err := uc.Store.Delete(c.Request.Context(), key); err != nil {
			log.Printf("blob cleanup failed for %s: %v", key, err)
		}
	}

	if token, ok := uc.Cookies.Token(c.Request); ok {
		_ = uc.Sessions.Destroy(c.Request.Context(), token)
	}
	_ = uc.Cookies.Clear(c.Writer, c.Request)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
