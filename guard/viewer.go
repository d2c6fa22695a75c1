package guard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/models"
	"github.com/kuvagram/api-go/session"
	"gorm.io/gorm"
)

// Resolver turns request-scoped session state into a viewer identity.
type Resolver struct {
	DB      *gorm.DB
	Store   session.Store
	Cookies *session.Cookies
}

// ResolveViewer attaches the session's user to the context when the session
// is live. It never halts: a missing cookie, an unknown token, a deleted
// account, or a disabled account all resolve to anonymous. Deleted accounts
// happen mid-session (the session outlives the row) and are recoverable;
// disabled accounts are locked out immediately, not just at next login.
func (r *Resolver) ResolveViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := r.Cookies.Token(c.Request)
		if !ok {
			c.Next()
			return
		}

		userID, ok, err := r.Store.Get(c.Request.Context(), token)
		if err != nil || !ok {
			c.Next()
			return
		}

		var user models.User
		if err := r.DB.First(&user, userID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			c.Next()
			return
		}
		if user.Disabled {
			c.Next()
			return
		}

		c.Set(KeyAuthUser, &user)
		c.Next()
	}
}

// RequireViewer halts when the chain needs an authenticated viewer and
// none was resolved.
// Prerequisite: ResolveViewer.
func RequireViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if AuthUser(c) == nil {
			halt(c, http.StatusUnauthorized, MsgAuthRequired, ReasonAuthRequired)
			return
		}
		c.Next()
	}
}
