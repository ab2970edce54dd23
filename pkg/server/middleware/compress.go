package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
)

// Compress gzips or deflates responses of at least minSize bytes for clients
// that accept it. Smaller responses are sent as is. Responses are buffered,
// so handlers that stream must not sit behind it.
func Compress(minSize int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accept := r.Header.Get("Accept-Encoding")
			if !strings.Contains(accept, "gzip") && !strings.Contains(accept, "deflate") {
				next.ServeHTTP(w, r)
				return
			}

			buf := &bufferedResponse{header: http.Header{}}
			next.ServeHTTP(buf, r)

			if buf.body.Len() < minSize {
				buf.replay(w)
				return
			}
			buf.header.Del("Content-Length")
			handlers.CompressHandler(http.HandlerFunc(func(cw http.ResponseWriter, _ *http.Request) {
				buf.replay(cw)
			})).ServeHTTP(w, r)
		})
	}
}

type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(code int) {
	if b.status == 0 {
		b.status = code
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) replay(w http.ResponseWriter) {
	for k, v := range b.header {
		w.Header()[k] = v
	}
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(b.body.Bytes())
}
