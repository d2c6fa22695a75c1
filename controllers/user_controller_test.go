package controllers_test

import (
	"net/http"
	"testing"

	"github.com/kuvagram/api-go/models"
)

func TestGetUserProfile(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.createImage(t, alice, models.ImagePrivacyPublic)
	env.createImage(t, alice, models.ImagePrivacyPrivate)
	env.db.Create(&models.Relation{SourceUserID: bob.ID, TargetUserID: alice.ID, Type: models.RelationFollow})

	w := env.do(t, "GET", "/api/users/alice", nil, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: got %d %s", w.Code, w.Body.String())
	}
}

func TestDeleteUserCascades(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.createImage(t, alice, models.ImagePrivacyPublic)
	env.db.Create(&models.Potrait{OwnerID: alice.ID, FileKey: "potraits/1/a.png", ThumbKey: "potraits/1/t.png"})
	env.db.Create(&models.Relation{SourceUserID: alice.ID, TargetUserID: bob.ID, Type: models.RelationFollow})
	env.db.Create(&models.Relation{SourceUserID: bob.ID, TargetUserID: alice.ID, Type: models.RelationBlock})

	cookies := env.login(t, "alice")
	w := env.do(t, "DELETE", "/api/users/alice", nil, "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("delete account: got %d %s", w.Code, w.Body.String())
	}

	var users, images, potraits, relations int64
	env.db.Model(&models.User{}).Where("id = ?", alice.ID).Count(&users)
	env.db.Model(&models.Image{}).Where("owner_id = ?", alice.ID).Count(&images)
	env.db.Model(&models.Potrait{}).Where("owner_id = ?", alice.ID).Count(&potraits)
	env.db.Model(&models.Relation{}).
		Where("source_user_id = ? OR target_user_id = ?", alice.ID, alice.ID).
		Count(&relations)
	if users != 0 || images != 0 || potraits != 0 || relations != 0 {
		t.Fatalf("rows after cascade: users=%d images=%d potraits=%d relations=%d, want all 0",
			users, images, potraits, relations)
	}

	// The other account and its outbound edges to third parties are intact.
	var bobCount int64
	env.db.Model(&models.User{}).Where("id = ?", bob.ID).Count(&bobCount)
	if bobCount != 1 {
		t.Fatalf("unrelated user removed by cascade")
	}

	// The deleting user's session died with the account.
	w = env.do(t, "POST", "/api/logout", nil, "", cookies)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("session after account delete: got %d, want 401", w.Code)
	}
}
