package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/jobportal/internal/logging"
)

// CookieStorageKey is the metadata key holding the persisted cookies.
const CookieStorageKey = "cookies"

// KeyValue is the slice of the metadata repository the jar needs.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PersistentJar is an http.CookieJar for a single server. Every change of
// the server's cookies is mirrored into the metadata store and restored on
// start, the way a browser keeps cookies between sessions.
type PersistentJar struct {
	inner  *cookiejar.Jar
	server *url.URL
	store  KeyValue
	logger logging.Logger
	mu     sync.Mutex
}

var _ http.CookieJar = (*PersistentJar)(nil)

// NewPersistentJar restores the cookies saved for server and returns the jar.
// A missing or unreadable record starts an empty jar.
func NewPersistentJar(ctx context.Context, server *url.URL, store KeyValue, logger logging.Logger) (*PersistentJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &PersistentJar{inner: inner, server: server, store: store, logger: logger.With("module", "cookie_jar")}

	raw, err := store.Get(ctx, CookieStorageKey)
	if err != nil {
		j.logger.Warn(ctx, "could not read stored cookies", "error", err)
		return j, nil
	}
	if raw == nil {
		return j, nil
	}

	var saved []storedCookie
	if err := json.Unmarshal(raw, &saved); err != nil {
		j.logger.Warn(ctx, "dropping corrupt cookie record", "error", err)
		_ = store.Delete(ctx, CookieStorageKey)
		return j, nil
	}

	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	inner.SetCookies(server, cookies)
	return j, nil
}

func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)
	if u.Host != j.server.Host {
		return
	}
	j.persist()
}

func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// Forget drops every cookie of the server, locally and in storage.
func (j *PersistentJar) Forget(ctx context.Context) {
	expired := make([]*http.Cookie, 0)
	for _, c := range j.inner.Cookies(j.server) {
		expired = append(expired, &http.Cookie{Name: c.Name, Path: "/", MaxAge: -1})
	}
	j.inner.SetCookies(j.server, expired)

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.store.Delete(ctx, CookieStorageKey); err != nil {
		j.logger.Warn(ctx, "could not delete stored cookies", "error", err)
	}
}

func (j *PersistentJar) persist() {
	ctx := context.Background()

	j.mu.Lock()
	defer j.mu.Unlock()

	current := j.inner.Cookies(j.server)
	if len(current) == 0 {
		if err := j.store.Delete(ctx, CookieStorageKey); err != nil {
			j.logger.Warn(ctx, "could not delete stored cookies", "error", err)
		}
		return
	}

	saved := make([]storedCookie, 0, len(current))
	for _, c := range current {
		saved = append(saved, storedCookie{Name: c.Name, Value: c.Value})
	}
	raw, err := json.Marshal(saved)
	if err != nil {
		j.logger.Warn(ctx, "could not encode cookies", "error", err)
		return
	}
	if err := j.store.Set(ctx, CookieStorageKey, raw); err != nil {
		j.logger.Warn(ctx, "could not store cookies", "error", err)
	}
}
