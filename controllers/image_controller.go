package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/guard"
	"github.com/kuvagram/api-go/metrics"
	"github.com/kuvagram/api-go/models"
	"github.com/kuvagram/api-go/storage"
	"gorm.io/gorm"
)

type ImageController struct {
	DB    *gorm.DB
	Store storage.Storage
}

func NewImageController(db *gorm.DB, store storage.Storage) *ImageController {
	return &ImageController{DB: db, Store: store}
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func (ic *ImageController) imageJSON(image *models.Image) gin.H {
	return gin.H{
		"id":         image.ID,
		"owner_id":   image.OwnerID,
		"privacy":    image.Privacy,
		"title":      image.Title,
		"caption":    image.Caption,
		"view_count": image.ViewCount,
		"url":        ic.Store.URL(image.FileKey),
		"created_at": image.CreatedAt,
		"edited_at":  image.EditedAt,
	}
}

func (ic *ImageController) ListImages(c *gin.Context) {
	owner := guard.MustFoundUser(c)
	viewer := guard.CurrentViewer(c)

	query := ic.DB.Where("owner_id = ?", owner.ID).Order("created_at DESC")
	if !viewer.Authenticated() || viewer.User.ID != owner.ID {
		query = query.Where("privacy = ?", models.ImagePrivacyPublic)
	}

	var images []models.Image
	if err := query.Find(&images).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	list := make([]gin.H, 0, len(images))
	for i := range images {
		list = append(list, ic.imageJSON(&images[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

// GetImage serves a single image's metadata. The guards already allowed the
// view, so the counter bump here is unconditional but best-effort: a failed
// increment does not fail the response.
func (ic *ImageController) GetImage(c *gin.Context) {
	image := guard.MustImage(c)

	err := ic.DB.Model(&models.Image{}).Where("id = ?", image.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		log.Printf("view count increment failed for image %d: %v", image.ID, err)
	} else {
		image.ViewCount++
		metrics.IncImageView()
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": ic.imageJSON(image)})
}

func (ic *ImageController) CreateImage(c *gin.Context) {
	owner := guard.MustFoundUser(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is missing"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}

	privacy := c.PostForm("privacy")
	if privacy == "" {
		privacy = models.ImagePrivacyPublic
	}
	if !models.ValidImagePrivacy(privacy) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "privacy must be public or private"})
		return
	}

	key := storage.NewKey(fmt.Sprintf("images/%d", owner.ID), header.Filename)
	if err := ic.Store.Save(c.Request.Context(), key, contentType, file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store image"})
		return
	}

	image := models.Image{
		OwnerID:     owner.ID,
		Privacy:     privacy,
		Title:       c.PostForm("title"),
		Caption:     c.PostForm("caption"),
		FileKey:     key,
		ContentType: contentType,
		Size:        header.Size,
	}

	if err := ic.DB.Create(&image).Error; err != nil {
		if delErr := ic.Store.Delete(c.Request.Context(), key); delErr != nil {
			log.Printf("blob cleanup failed for %s: %v", key, delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": ic.imageJSON(&image)})
}

func (ic *ImageController) UpdateImage(c *gin.Context) {
	image := guard.MustImage(c)

	var input struct {
		Title   *string `json:"title"`
		Caption *string `json:"caption"`
		Privacy *string `json:"privacy"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Caption != nil {
		updates["caption"] = *input.Caption
	}
	if input.Privacy != nil {
		if !models.ValidImagePrivacy(*input.Privacy) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "privacy must be public or private"})
			return
		}
		updates["privacy"] = *input.Privacy
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": ic.imageJSON(image)})
		return
	}

	now := time.Now()
	updates["edited_at"] = now

	if err := ic.DB.Model(image).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": ic.imageJSON(image)})
}

func (ic *ImageController) DeleteImage(c *gin.Context) {
	image := guard.MustImage(c)

	if err := ic.DB.Delete(&models.Image{}, image.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete image"})
		return
	}
	if err := ic.Store.Delete(c.Request.Context(), image.FileKey); err != nil {
		log.Printf("blob cleanup failed for %s: %v", image.FileKey, err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
