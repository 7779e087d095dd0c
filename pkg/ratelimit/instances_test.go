package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP_ForwardedForTakesFirstHop(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/client-feedback", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "203.0.113.7", ClientIP(r))
}

func TestClientIP_RealIPFallback(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/client-feedback", nil)
	r.Header.Set("X-Real-Ip", "198.51.100.4")

	assert.Equal(t, "198.51.100.4", ClientIP(r))
}

func TestClientIP_UnknownWhenNoHeaders(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/client-feedback", nil)

	assert.Equal(t, "unknown", ClientIP(r))
}
