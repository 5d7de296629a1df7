package servehttp

import (
	"autobay/bizerror"
	"autobay/common"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
)

type idempotentEntry struct {
	fingerprint string
	done        bool
	status      int
	contentType string
	body        []byte
}

// IdempotencyCache remembers the responses of mutating requests by their Idempotency-Key.
type IdempotencyCache struct {
	entries *cache.Cache
	ttl     time.Duration
}

func NewIdempotencyCache(ttl time.Duration) *IdempotencyCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &IdempotencyCache{entries: cache.New(ttl, ttl), ttl: ttl}
}

type capturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotent replays the stored response when a request carries an Idempotency-Key already
// answered with a non-5xx status. Requests without the header pass through untouched.
func Idempotent(store *IdempotencyCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if store == nil || key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			panic(&common.ErrBadParam{Cause: fmt.Errorf("idempotency key is longer than %d characters", maxIdempotencyKeyLength)})
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		fingerprint := fingerprintOf(c.Request.Method, c.Request.URL.Path, body)
		cacheKey := c.Request.Method + " " + c.Request.URL.Path + " " + key

		if err := store.entries.Add(cacheKey, &idempotentEntry{fingerprint: fingerprint}, store.ttl); err != nil {
			replay(c, store, cacheKey, fingerprint)
			return
		}

		completed := false
		defer func() {
			if !completed {
				store.entries.Delete(cacheKey)
			}
		}()

		writer := &capturingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		status := writer.Status()
		if status >= http.StatusInternalServerError || c.IsAborted() {
			return
		}
		store.entries.Set(cacheKey, &idempotentEntry{fingerprint: fingerprint, done: true, status: status,
			contentType: writer.Header().Get("Content-Type"), body: writer.body.Bytes()}, store.ttl)
		completed = true
	}
}

func replay(c *gin.Context, store *IdempotencyCache, cacheKey, fingerprint string) {
	value, found := store.entries.Get(cacheKey)
	if !found {
		// expired between Add and Get
		panic(bizerror.ErrRequestInFlight)
	}
	entry := value.(*idempotentEntry)
	if entry.fingerprint != fingerprint {
		panic(bizerror.ErrIdempotencyReuse)
	}
	if !entry.done {
		panic(bizerror.ErrRequestInFlight)
	}

	logrus.WithFields(logrus.Fields{"path": c.Request.URL.Path, "status": entry.status}).Info("idempotent request replayed")
	c.Header(HeaderIdempotentReplayed, "true")
	c.Data(entry.status, entry.contentType, entry.body)
	c.Abort()
}

func fingerprintOf(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method + " " + path + "\n"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
