// Package guard implements the resource access control engine: resolving
// the session viewer, locating URL-scoped resources, and enforcing the
// visibility policy. Guards are ordinary gin middleware composed
// left-to-right on a route; the first halt wins and nothing downstream of a
// halt runs. A guard invoked without its declared prerequisite panics — that
// is a route wiring bug, surfaced as a 500 by gin's recovery, never as a
// client error.
package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/metrics"
	"github.com/kuvagram/api-go/models"
)

// Context keys for values guards attach on allow.
const (
	KeyAuthUser  = "authUser"
	KeyFoundUser = "foundUser"
	KeyImage     = "image"
	KeyPotrait   = "potrait"
	KeyRelation  = "relation"
)

// Canonical halt messages. Handlers, clients, and tests match on the exact
// strings, so they never change shape per guard.
const (
	MsgUserNotFound        = "user does not exist"
	MsgUserDisabled        = "user is disabled"
	MsgImageNotFound       = "image does not exist"
	MsgPotraitNotFound     = "user does not have a potrait"
	MsgRelationNotFound    = "relation does not exist"
	MsgAuthRequired        = "authentication required"
	MsgNotOwner            = "session user is not the owner"
	MsgImagePrivate        = "image is private"
	MsgRelationTypeInvalid = "invalid relation type"
	MsgRelationTypeMissing = "relation type is missing"
	MsgIDInvalid           = "id is invalid"
	MsgIDMissing           = "id is missing"
	MsgSelfRelation        = "user can not have a relation with itself"
)

func halt(c *gin.Context, status int, message string, reason Reason) {
	metrics.IncGuardHalt(string(reason))
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// AuthUser returns the session-resolved user, or nil for anonymous requests.
func AuthUser(c *gin.Context) *models.User {
	if v, ok := c.Get(KeyAuthUser); ok {
		return v.(*models.User)
	}
	return nil
}

// CurrentViewer wraps the resolved identity for the policy evaluator.
func CurrentViewer(c *gin.Context) Viewer {
	return Viewer{User: AuthUser(c)}
}

// FoundUser returns the URL-scoped user located by FindUser, or nil.
func FoundUser(c *gin.Context) *models.User {
	if v, ok := c.Get(KeyFoundUser); ok {
		return v.(*models.User)
	}
	return nil
}

// MustFoundUser is for guards and handlers that declare FindUser as a
// prerequisite. Absence is a wiring defect, not a request error.
func MustFoundUser(c *gin.Context) *models.User {
	user := FoundUser(c)
	if user == nil {
		panic("guard: found user missing from context; FindUser must run first")
	}
	return user
}

func Image(c *gin.Context) *models.Image {
	if v, ok := c.Get(KeyImage); ok {
		return v.(*models.Image)
	}
	return nil
}

func MustImage(c *gin.Context) *models.Image {
	image := Image(c)
	if image == nil {
		panic("guard: image missing from context; FindImage must run first")
	}
	return image
}

func Potrait(c *gin.Context) *models.Potrait {
	if v, ok := c.Get(KeyPotrait); ok {
		return v.(*models.Potrait)
	}
	return nil
}

func MustPotrait(c *gin.Context) *models.Potrait {
	potrait := Potrait(c)
	if potrait == nil {
		panic("guard: potrait missing from context; FindPotrait must run first")
	}
	return potrait
}

func Relation(c *gin.Context) *models.Relation {
	if v, ok := c.Get(KeyRelation); ok {
		return v.(*models.Relation)
	}
	return nil
}

func MustRelation(c *gin.Context) *models.Relation {
	relation := Relation(c)
	if relation == nil {
		panic("guard: relation missing from context; FindRelation must run first")
	}
	return relation
}

func haltDecision(c *gin.Context, d Decision) {
	switch d.Reason {
	case ReasonOwnerDisabled:
		halt(c, http.StatusBadRequest, MsgUserDisabled, d.Reason)
	case ReasonPrivate:
		halt(c, http.StatusUnauthorized, MsgImagePrivate, d.Reason)
	case ReasonAuthRequired:
		halt(c, http.StatusUnauthorized, MsgAuthRequired, d.Reason)
	case ReasonNotOwner:
		halt(c, http.StatusUnauthorized, MsgNotOwner, d.Reason)
	default:
		panic("guard: halt on an allowed decision")
	}
}

// CheckUserEnabled gates the whole chain on the scoped account's disabled
// flag. It dominates every later check, ownership included: a disabled
// user's own session does not get through.
// Prerequisite: FindUser.
func CheckUserEnabled() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := MustFoundUser(c)
		if user.Disabled {
			halt(c, http.StatusBadRequest, MsgUserDisabled, ReasonOwnerDisabled)
			return
		}
		c.Next()
	}
}

// RequireOwner enforces that the session user is the URL-scoped account.
// It guards every mutation and the owner-only listings; create-time
// ownership ("the path user is me") is the same check, since the resource
// does not exist yet. Anonymous viewers get the auth-required response,
// distinct from the not-owner one, so clients can route to a login prompt.
// Prerequisite: FindUser (and ResolveViewer somewhere upstream).
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := MustFoundUser(c)
		d := Evaluate(CurrentViewer(c), owner, owner, ActionEdit)
		if !d.Allowed {
			haltDecision(c, d)
			return
		}
		c.Next()
	}
}

// RequireImageViewable enforces the view policy on the located image:
// public images pass, private ones only for their owner.
// Prerequisites: FindUser, FindImage.
func RequireImageViewable() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := MustFoundUser(c)
		image := MustImage(c)
		d := Evaluate(CurrentViewer(c), owner, image, ActionView)
		if !d.Allowed {
			haltDecision(c, d)
			return
		}
		c.Next()
	}
}
