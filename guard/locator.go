package guard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/models"
	"gorm.io/gorm"
)

// Locator fetches URL-scoped resources. Each locator attaches its result to
// the context on success; a locator finding its value already attached
// reuses it, so two guards built on the same locator cost one lookup.
type Locator struct {
	DB *gorm.DB
}

// parseID validates a path id: a positive int32, matching persisted key
// ranges. Parse failures are client errors, never lookups.
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	if raw == "" {
		halt(c, http.StatusBadRequest, MsgIDMissing, "validation")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		halt(c, http.StatusBadRequest, MsgIDInvalid, "validation")
		return 0, false
	}
	return uint(id), true
}

// FindUser resolves :username to its account row, case-sensitively.
// The parameter is part of the route shape; its absence is a wiring bug.
func (l *Locator) FindUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if FoundUser(c) != nil {
			c.Next()
			return
		}

		username := c.Param("username")
		if username == "" {
			panic("guard: route has no :username parameter")
		}

		var user models.User
		err := l.DB.Where("username = ?", username).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			halt(c, http.StatusNotFound, MsgUserNotFound, "not_found")
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(KeyFoundUser, &user)
		c.Next()
	}
}

// FindImage resolves :imageId within the scoped user's images. An id that
// exists under a different owner is indistinguishable from a missing one.
// Prerequisite: FindUser.
func (l *Locator) FindImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Image(c) != nil {
			c.Next()
			return
		}

		owner := MustFoundUser(c)
		id, ok := parseID(c, "imageId")
		if !ok {
			return
		}

		var image models.Image
		err := l.DB.Where("id = ? AND owner_id = ?", id, owner.ID).First(&image).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			halt(c, http.StatusNotFound, MsgImageNotFound, "not_found")
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(KeyImage, &image)
		c.Next()
	}
}

// FindPotrait resolves the scoped user's avatar.
// Prerequisite: FindUser.
func (l *Locator) FindPotrait() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Potrait(c) != nil {
			c.Next()
			return
		}

		owner := MustFoundUser(c)

		var potrait models.Potrait
		err := l.DB.Where("owner_id = ?", owner.ID).First(&potrait).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			halt(c, http.StatusNotFound, MsgPotraitNotFound, "not_found")
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(KeyPotrait, &potrait)
		c.Next()
	}
}

// FindRelation resolves :relationId among relations whose source is the
// scoped user. A relation pointed at the viewer from elsewhere does not
// resolve here, so targets cannot probe edges aimed at them.
// Prerequisite: FindUser.
func (l *Locator) FindRelation() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Relation(c) != nil {
			c.Next()
			return
		}

		owner := MustFoundUser(c)
		id, ok := parseID(c, "relationId")
		if !ok {
			return
		}

		var relation models.Relation
		err := l.DB.Where("id = ? AND source_user_id = ?", id, owner.ID).First(&relation).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			halt(c, http.StatusNotFound, MsgRelationNotFound, "not_found")
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(KeyRelation, &relation)
		c.Next()
	}
}
