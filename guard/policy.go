package guard

import (
	"github.com/kuvagram/api-go/models"
)

// Action is what the viewer is trying to do with a resource.
type Action int

const (
	ActionView Action = iota
	ActionCreate
	ActionEdit
	ActionDelete
)

// Reason classifies a denial. Reasons map to canonical status/message pairs
// in guard.go; they are also the metric labels for halted requests.
type Reason string

const (
	ReasonAllowed       Reason = "allowed"
	ReasonOwnerDisabled Reason = "owner_disabled"
	ReasonPrivate       Reason = "private"
	ReasonAuthRequired  Reason = "auth_required"
	ReasonNotOwner      Reason = "not_owner"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision {
	return Decision{Allowed: true, Reason: ReasonAllowed}
}

func deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Viewer is the identity making the current request: anonymous when User is
// nil, authenticated otherwise.
type Viewer struct {
	User *models.User
}

func (v Viewer) Authenticated() bool {
	return v.User != nil
}

// OwnedResource is the capability every guarded resource exposes. For
// create, where the resource does not exist yet, the scoped user account
// itself stands in (ownership then means "path user == session user").
type OwnedResource interface {
	ResourceOwnerID() uint
}

// PrivateResource adds a privacy flag. Only images carry one; users and
// potraits are viewable by anyone once the disabled gate passes.
type PrivateResource interface {
	OwnedResource
	ResourcePrivate() bool
}

// Evaluate is the policy decision function. It is pure: no I/O, no context.
// The order of the gates is load-bearing:
//
//  1. a disabled owner blocks everything, including the owner's own session
//  2. view is gated by privacy, with the owner always allowed through
//  3. create/edit/delete require the authenticated owner, and anonymous
//     viewers are distinguished from authenticated non-owners
func Evaluate(viewer Viewer, owner *models.User, resource OwnedResource, action Action) Decision {
	if owner.Disabled {
		return deny(ReasonOwnerDisabled)
	}

	if action == ActionView {
		if private, ok := resource.(PrivateResource); ok && private.ResourcePrivate() {
			if viewer.Authenticated() && viewer.User.ID == resource.ResourceOwnerID() {
				return allow()
			}
			return deny(ReasonPrivate)
		}
		return allow()
	}

	if !viewer.Authenticated() {
		return deny(ReasonAuthRequired)
	}
	if viewer.User.ID != resource.ResourceOwnerID() {
		return deny(ReasonNotOwner)
	}
	return allow()
}
