package controllers_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/kuvagram/api-go/config"
	"github.com/kuvagram/api-go/models"
	"github.com/kuvagram/api-go/routes"
	"github.com/kuvagram/api-go/session"
	"github.com/kuvagram/api-go/storage"
	"github.com/kuvagram/api-go/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	blobs  storage.Storage
}

var testSetupOnce sync.Once

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed migrating schema: %v", err)
	}
	return db
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnvWithStorage(t, nil)
}

func setupTestEnvWithStorage(t *testing.T, blobs storage.Storage) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		validation.Register()
	})

	db := openTestDB(t)
	if blobs == nil {
		blobs = storage.NewDisk(t.TempDir(), "http://localhost/blobs")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	routes.SetupRoutes(router, db, session.NewMemoryStore(), session.NewCookies("test-secret"), blobs, nil)

	return &testEnv{router: router, db: db, blobs: blobs}
}

func (env *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}
	user := &models.User{Username: username, Name: username, PasswordHash: string(hash)}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user %q: %v", username, err)
	}
	return user
}

// login authenticates through the real endpoint and returns the session
// cookies for subsequent requests.
func (env *testEnv) login(t *testing.T, username string) []*http.Cookie {
	t.Helper()
	w := env.do(t, "POST", "/api/login", jsonBody(t, map[string]string{
		"username": username,
		"password": "password123",
	}), "application/json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login as %q failed: %d %s", username, w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func (env *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed marshaling body: %v", err)
	}
	return bytes.NewReader(data)
}

func errMsg(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not an error object: %s", w.Body.String())
	}
	return body["error"]
}

// pngForm builds a multipart body with a small real PNG in the "file" field
// plus any extra form fields. CreateFormFile would stamp the part as
// octet-stream, so the part header is written by hand.
func pngForm(t *testing.T, fields map[string]string) (io.Reader, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("failed encoding test png: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="upload.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed creating multipart part: %v", err)
	}
	if _, err := part.Write(pngBuf.Bytes()); err != nil {
		t.Fatalf("failed writing png part: %v", err)
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed writing form field %q: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}
