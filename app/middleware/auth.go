package appMiddleware

import (
	"net/http"
	"strings"
)

// TokenHeader carries the raw access token, without any "Bearer" prefix.
const TokenHeader = "x-access-token"

// TokenFromRequest extracts the access token from the request headers.
func TokenFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(TokenHeader))
}
