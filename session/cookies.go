package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "kuvagram_session"
	tokenField = "token"
)

// Cookies carries the opaque session token in a signed cookie. Only the
// token travels client-side; the user id lives in the Store.
type Cookies struct {
	store *sessions.CookieStore
}

func NewCookies(secret string) *Cookies {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 30,
	}
	return &Cookies{store: store}
}

// Token extracts the session token from the request, if any. A cookie that
// fails signature verification counts as absent.
func (c *Cookies) Token(r *http.Request) (string, bool) {
	sess, err := c.store.Get(r, cookieName)
	if err != nil {
		return "", false
	}
	token, ok := sess.Values[tokenField].(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (c *Cookies) Issue(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := c.store.Get(r, cookieName)
	sess.Values[tokenField] = token
	return sess.Save(r, w)
}

func (c *Cookies) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := c.store.Get(r, cookieName)
	delete(sess.Values, tokenField)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
