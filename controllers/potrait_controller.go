package controllers

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/guard"
	"github.com/kuvagram/api-go/models"
	"github.com/kuvagram/api-go/storage"
	"gorm.io/gorm"
)

type PotraitController struct {
	DB    *gorm.DB
	Store storage.Storage
}

func NewPotraitController(db *gorm.DB, store storage.Storage) *PotraitController {
	return &PotraitController{DB: db, Store: store}
}

const potraitThumbSize = 256

func (pc *PotraitController) potraitJSON(potrait *models.Potrait) gin.H {
	return gin.H{
		"id":           potrait.ID,
		"owner_id":     potrait.OwnerID,
		"url":          pc.Store.URL(potrait.FileKey),
		"thumbnailUrl": pc.Store.URL(potrait.ThumbKey),
		"content_type": potrait.ContentType,
		"size":         potrait.Size,
		"created_at":   potrait.CreatedAt,
	}
}

func (pc *PotraitController) GetPotrait(c *gin.Context) {
	potrait := guard.MustPotrait(c)
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: pc.potraitJSON(potrait)})
}

// PutPotrait creates or replaces the avatar. The new blobs are written
// first, then the row swap runs in one transaction: a failure at any point
// leaves the previous potrait fully intact. Old blobs are removed only
// after the swap commits.
func (pc *PotraitController) PutPotrait(c *gin.Context) {
	owner := guard.MustFoundUser(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "potrait file is missing"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}

	original, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}

	decoded, err := imaging.Decode(bytes.NewReader(original))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is not a valid image"})
		return
	}
	thumb := imaging.Fill(decoded, potraitThumbSize, potraitThumbSize, imaging.Center, imaging.Lanczos)

	var thumbBuf bytes.Buffer
	if err := imaging.Encode(&thumbBuf, thumb, imaging.PNG); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process image"})
		return
	}

	prefix := fmt.Sprintf("potraits/%d", owner.ID)
	fileKey := storage.NewKey(prefix, header.Filename)
	thumbKey := storage.NewKey(prefix, "thumb.png")

	ctx := c.Request.Context()
	if err := pc.Store.Save(ctx, fileKey, contentType, bytes.NewReader(original)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store potrait"})
		return
	}
	if err := pc.Store.Save(ctx, thumbKey, "image/png", bytes.NewReader(thumbBuf.Bytes())); err != nil {
		if delErr := pc.Store.Delete(ctx, fileKey); delErr != nil {
			log.Printf("blob cleanup failed for %s: %v", fileKey, delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store potrait"})
		return
	}

	var oldKeys []string
	potrait := models.Potrait{
		OwnerID:     owner.ID,
		FileKey:     fileKey,
		ThumbKey:    thumbKey,
		ContentType: contentType,
		Size:        header.Size,
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Potrait
		if err := tx.Where("owner_id = ?", owner.ID).First(&existing).Error; err == nil {
			oldKeys = []string{existing.FileKey, existing.ThumbKey}
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		}
		return tx.Create(&potrait).Error
	})
	if err != nil {
		for _, key := range []string{fileKey, thumbKey} {
			if delErr := pc.Store.Delete(ctx, key); delErr != nil {
				log.Printf("blob cleanup failed for %s: %v", key, delErr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save potrait"})
		return
	}

	for _, key := range oldKeys {
		if delErr := pc.Store.Delete(ctx, key); delErr != nil {
			log.Printf("blob cleanup failed for %s: %v", key, delErr)
		}
	}

	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: pc.potraitJSON(&potrait)})
}

func (pc *PotraitController) DeletePotrait(c *gin.Context) {
	potrait := guard.MustPotrait(c)

	if err := pc.DB.Delete(&models.Potrait{}, potrait.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete potrait"})
		return
	}
	for _, key := range []string{potrait.FileKey, potrait.ThumbKey} {
		if err := pc.Store.Delete(c.Request.Context(), key); err != nil {
			log.Printf("blob cleanup failed for %s: %v", key, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
