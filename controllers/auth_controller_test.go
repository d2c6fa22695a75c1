package controllers_test

import (
	"net/http"
	"testing"

	"github.com/kuvagram/api-go/guard"
	"github.com/kuvagram/api-go/models"
)

func TestRegister(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, "POST", "/api/register", jsonBody(t, map[string]string{
		"username": "alice",
		"name":     "Alice",
		"password": "password123",
	}), "application/json", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: got %d %s", w.Code, w.Body.String())
	}

	var count int64
	env.db.Model(&models.User{}).Where("username = ?", "alice").Count(&count)
	if count != 1 {
		t.Fatalf("users stored: got %d, want 1", count)
	}

	// Duplicate usernames are rejected.
	w = env.do(t, "POST", "/api/register", jsonBody(t, map[string]string{
		"username": "alice",
		"name":     "Other Alice",
		"password": "password123",
	}), "application/json", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: got %d, want 400", w.Code)
	}
}

func TestRegisterUsernameValidation(t *testing.T) {
	env := setupTestEnv(t)

	for _, username := range []string{"a", "1abc", "has space", "way_too_long_username_over_thirty_chars"} {
		w := env.do(t, "POST", "/api/register", jsonBody(t, map[string]string{
			"username": username,
			"name":     "X",
			"password": "password123",
		}), "application/json", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("username %q: got %d, want 400", username, w.Code)
		}
	}
}

func TestLoginAndLogout(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice")

	w := env.do(t, "POST", "/api/login", jsonBody(t, map[string]string{
		"username": "alice",
		"password": "wrong",
	}), "application/json", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: got %d, want 401", w.Code)
	}

	cookies := env.login(t, "alice")

	w = env.do(t, "POST", "/api/logout", nil, "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: got %d", w.Code)
	}

	// The session is gone server-side even if the old cookie is replayed.
	w = env.do(t, "POST", "/api/logout", nil, "", cookies)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("replayed session: got %d, want 401", w.Code)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "mallory")
	env.db.Model(user).Update("disabled", true)

	w := env.do(t, "POST", "/api/login", jsonBody(t, map[string]string{
		"username": "mallory",
		"password": "password123",
	}), "application/json", nil)
	if w.Code != http.StatusBadRequest || errMsg(t, w) != guard.MsgUserDisabled {
		t.Fatalf("disabled login: got %d %q, want 400 %q", w.Code, errMsg(t, w), guard.MsgUserDisabled)
	}
}

func TestDisablingCutsOffLiveSession(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice")
	cookies := env.login(t, "alice")

	// Disable after login; the next request must already be rejected.
	env.db.Model(user).Update("disabled", true)

	w := env.do(t, "DELETE", "/api/users/alice", nil, "", cookies)
	if w.Code != http.StatusBadRequest || errMsg(t, w) != guard.MsgUserDisabled {
		t.Fatalf("disabled mid-session: got %d %q, want 400 %q", w.Code, errMsg(t, w), guard.MsgUserDisabled)
	}
}
