package session

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Jar is an [http.CookieJar] backed by a [Store].
//
// All service cookies share one namespace; host matching is not performed.
type Jar struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
}

// NewJar wraps store. Store failures are logged and otherwise ignored, as a browser would.
func NewJar(store Store, logger *log.Logger) *Jar {
	if logger == nil {
		logger = log.Default()
	}
	return &Jar{store: store, logger: logger, now: time.Now}
}

// SetCookies stores cookies from a response, deleting those that arrive already expired.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	ctx := context.Background()
	now := j.now()

	for _, c := range cookies {
		e := Entry{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires}
		switch {
		case c.MaxAge < 0:
			e.Expires = time.Unix(0, 0).UTC()
		case c.MaxAge > 0:
			e.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if e.Path == "" {
			e.Path = DefaultPath
		}

		if err := j.store.Set(ctx, e); err != nil {
			j.logger.Warn("failed to store cookie", "name", c.Name, "url", u.Redacted(), "error", err)
		}
	}
}

// Cookies returns stored, unexpired cookies whose path covers u.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	entries, err := j.store.All(context.Background())
	if err != nil {
		j.logger.Warn("failed to read cookies", "url", u.Redacted(), "error", err)
		return nil
	}

	now := j.now()
	var cookies []*http.Cookie
	for _, e := range entries {
		if e.Expired(now) || !pathMatch(u.Path, e.Path) {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: e.Name, Value: e.Value})
	}
	return cookies
}

// pathMatch implements the RFC 6265 section 5.1.4 path-match.
func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == "" {
		reqPath = "/"
	}
	if cookiePath == "" || cookiePath == reqPath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}
