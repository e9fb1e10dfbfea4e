package relay

import "net/http"

// responseWriter wraps http.ResponseWriter to track whether a response has
// been written, along with its status and size. It prevents the superfluous
// WriteHeader calls that would otherwise surface as protocol errors when the
// error handler runs after a partial write.
type responseWriter struct {
	http.ResponseWriter
	status  int
	size    int64
	written bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

// WriteHeader records the status code and suppresses duplicate calls.
func (w *responseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

// Write marks the response as written and tracks its size.
func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

// Status returns the status code written to the response, or 0.
func (w *responseWriter) Status() int { return w.status }

// Size returns the number of body bytes written.
func (w *responseWriter) Size() int64 { return w.size }

// Written reports whether anything has been written to the response.
func (w *responseWriter) Written() bool { return w.written }

// Flush implements http.Flusher when the underlying writer supports it.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
