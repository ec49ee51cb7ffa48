package greeting

import (
	"net/http"
)

// Message is the body returned for every request.
const Message = "Hello world!"

// Handler returns Message regardless of the payload.
func Handler(_ []byte) ([]byte, error) {
	return []byte(Message), nil
}

// HTTP responds to any request with status 200 and Message.
func HTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(Message))
}
