package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/kuvagram/api-go/guard"
	"github.com/kuvagram/api-go/models"
	"github.com/kuvagram/api-go/storage"
)

// flakyStorage wraps a real storage and fails saves on demand.
type flakyStorage struct {
	storage.Storage
	failSaves bool
}

func (f *flakyStorage) Save(ctx context.Context, key string, contentType string, body io.Reader) error {
	if f.failSaves {
		return errors.New("storage unavailable")
	}
	return f.Storage.Save(ctx, key, contentType, body)
}

func TestPutAndGetPotrait(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice")
	cookies := env.login(t, "alice")

	w := env.do(t, "GET", "/api/users/alice/potrait", nil, "", nil)
	if w.Code != http.StatusNotFound || errMsg(t, w) != guard.MsgPotraitNotFound {
		t.Fatalf("no potrait yet: got %d %q, want 404 %q", w.Code, errMsg(t, w), guard.MsgPotraitNotFound)
	}

	body, contentType := pngForm(t, nil)
	w = env.do(t, "PUT", "/api/users/alice/potrait", body, contentType, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("put potrait: got %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, "GET", "/api/users/alice/potrait", nil, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get potrait: got %d %s", w.Code, w.Body.String())
	}

	var count int64
	env.db.Model(&models.Potrait{}).Count(&count)
	if count != 1 {
		t.Fatalf("potrait rows: got %d, want 1", count)
	}
}

func TestReplacePotraitKeepsSingleRow(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice")
	cookies := env.login(t, "alice")

	body, contentType := pngForm(t, nil)
	env.do(t, "PUT", "/api/users/alice/potrait", body, contentType, cookies)

	var first models.Potrait
	if err := env.db.First(&first).Error; err != nil {
		t.Fatalf("first potrait missing: %v", err)
	}

	body, contentType = pngForm(t, nil)
	w := env.do(t, "PUT", "/api/users/alice/potrait", body, contentType, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("replace: got %d %s", w.Code, w.Body.String())
	}

	var count int64
	env.db.Model(&models.Potrait{}).Count(&count)
	if count != 1 {
		t.Fatalf("potrait rows after replace: got %d, want 1", count)
	}
	var second models.Potrait
	env.db.First(&second)
	if second.ID == first.ID || second.FileKey == first.FileKey {
		t.Fatalf("replace did not produce a new potrait: old=%+v new=%+v", first, second)
	}
}

func TestReplacePotraitFailureLeavesOldIntact(t *testing.T) {
	disk := storage.NewDisk(t.TempDir(), "http://localhost/blobs")
	flaky := &flakyStorage{Storage: disk}
	env := setupTestEnvWithStorage(t, flaky)
	env.createUser(t, "alice")
	cookies := env.login(t, "alice")

	body, contentType := pngForm(t, nil)
	w := env.do(t, "PUT", "/api/users/alice/potrait", body, contentType, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("initial put: got %d %s", w.Code, w.Body.String())
	}
	var original models.Potrait
	if err := env.db.First(&original).Error; err != nil {
		t.Fatalf("original potrait missing: %v", err)
	}

	flaky.failSaves = true
	body, contentType = pngForm(t, nil)
	w = env.do(t, "PUT", "/api/users/alice/potrait", body, contentType, cookies)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("failed replace: got %d, want 500", w.Code)
	}

	// The original row is untouched and still served.
	var after models.Potrait
	if err := env.db.First(&after).Error; err != nil {
		t.Fatalf("potrait gone after failed replace: %v", err)
	}
	if after.ID != original.ID || after.FileKey != original.FileKey {
		t.Fatalf("potrait changed by failed replace: old=%+v new=%+v", original, after)
	}

	w = env.do(t, "GET", "/api/users/alice/potrait", nil, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get after failed replace: got %d", w.Code)
	}
	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed decoding potrait response: %v", err)
	}
	if resp.Data.ID != original.ID {
		t.Fatalf("served potrait id: got %d, want %d", resp.Data.ID, original.ID)
	}
}

func TestDeletePotrait(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice")
	cookies := env.login(t, "alice")

	body, contentType := pngForm(t, nil)
	env.do(t, "PUT", "/api/users/alice/potrait", body, contentType, cookies)

	w := env.do(t, "DELETE", "/api/users/alice/potrait", nil, "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("delete potrait: got %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, "GET", "/api/users/alice/potrait", nil, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got %d, want 404", w.Code)
	}
}

func TestPutPotraitRequiresOwner(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice")
	env.createUser(t, "bob")
	bobCookies := env.login(t, "bob")

	body, contentType := pngForm(t, nil)
	w := env.do(t, "PUT", "/api/users/alice/potrait", body, contentType, bobCookies)
	if w.Code != http.StatusUnauthorized || errMsg(t, w) != guard.MsgNotOwner {
		t.Fatalf("foreign put: got %d %q, want 401 %q", w.Code, errMsg(t, w), guard.MsgNotOwner)
	}
}
