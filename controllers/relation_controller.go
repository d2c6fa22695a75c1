package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/guard"
	"github.com/kuvagram/api-go/models"
	"gorm.io/gorm"
)

type RelationController struct {
	DB *gorm.DB
}

func NewRelationController(db *gorm.DB) *RelationController {
	return &RelationController{DB: db}
}

func (rc *RelationController) ListRelations(c *gin.Context) {
	owner := guard.MustFoundUser(c)

	var relations []models.Relation
	err := rc.DB.Preload("TargetUser").
		Where("source_user_id = ?", owner.ID).
		Order("created_at DESC").
		Find(&relations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	list := make([]gin.H, 0, len(relations))
	for _, relation := range relations {
		list = append(list, gin.H{
			"id":         relation.ID,
			"type":       relation.Type,
			"created_at": relation.CreatedAt,
			"target": gin.H{
				"id":       relation.TargetUser.ID,
				"username": relation.TargetUser.Username,
			},
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

func (rc *RelationController) CreateRelation(c *gin.Context) {
	owner := guard.MustFoundUser(c)

	var input struct {
		Type   string `json:"type"`
		Target string `json:"target"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if input.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": guard.MsgRelationTypeMissing})
		return
	}
	if !models.ValidRelationType(input.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": guard.MsgRelationTypeInvalid})
		return
	}

	var target models.User
	if err := rc.DB.Where("username = ?", input.Target).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": guard.MsgUserNotFound})
		return
	}
	if target.Disabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": guard.MsgUserDisabled})
		return
	}

	if target.ID == owner.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": guard.MsgSelfRelation})
		return
	}

	// A user may hold one relation of each type toward a target; follow and
	// block can coexist.
	var existing models.Relation
	err := rc.DB.Where("source_user_id = ? AND target_user_id = ? AND type = ?",
		owner.ID, target.ID, input.Type).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("relation with type '%s' already exists", input.Type)})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	relation := models.Relation{
		SourceUserID: owner.ID,
		TargetUserID: target.ID,
		Type:         input.Type,
	}
	if err := rc.DB.Create(&relation).Error; err != nil {
		// The unique index backs the check above under concurrent creates.
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("relation with type '%s' already exists", input.Type)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{
		"id":         relation.ID,
		"type":       relation.Type,
		"created_at": relation.CreatedAt,
		"target": gin.H{
			"id":       target.ID,
			"username": target.Username,
		},
	}})
}

func (rc *RelationController) DeleteRelation(c *gin.Context) {
	relation := guard.MustRelation(c)

	if err := rc.DB.Delete(&models.Relation{}, relation.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete relation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
