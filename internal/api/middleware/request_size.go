package middleware

import (
	"net/http"
)

// FormMaxBodySize bounds urlencoded form submissions. The largest form
// (event with a 2000 character description) is far below it.
const FormMaxBodySize int64 = 64 << 10

// RequestSize limits the size of incoming request bodies.
//
// It wraps the request body with http.MaxBytesReader; reading past maxBytes
// fails, which makes r.ParseForm return an error.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
