package github

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWith(status int, headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{StatusCode: status, Header: h}
}

func TestRateLimiterUpdateFromResponse(t *testing.T) {
	r := NewRateLimiter()
	reset := time.Now().Add(30 * time.Minute).Unix()

	r.UpdateFromResponse(responseWith(200, map[string]string{
		HeaderRateLimit:     "5000",
		HeaderRateRemaining: "4321",
		HeaderRateReset:     strconv.FormatInt(reset, 10),
	}))

	assert.Equal(t, 4321, r.Remaining())
	assert.Equal(t, 5000, r.Limit())
	assert.Equal(t, reset, r.ResetTime().Unix())
}

func TestRateLimiterCheckRateLimit(t *testing.T) {
	t.Run("ok response passes", func(t *testing.T) {
		r := NewRateLimiter()
		assert.NoError(t, r.CheckRateLimit(responseWith(200, nil)))
	})

	t.Run("429 returns rate limit error", func(t *testing.T) {
		r := NewRateLimiter()
		err := r.CheckRateLimit(responseWith(429, map[string]string{
			HeaderRetryAfter: "60",
		}))
		require.Error(t, err)
		assert.True(t, IsRateLimited(err))
	})

	t.Run("403 with zero remaining returns rate limit error", func(t *testing.T) {
		r := NewRateLimiter()
		err := r.CheckRateLimit(responseWith(403, map[string]string{
			HeaderRateRemaining: "0",
		}))
		require.Error(t, err)
		assert.True(t, IsRateLimited(err))
	})

	t.Run("plain 403 is not a rate limit", func(t *testing.T) {
		r := NewRateLimiter()
		err := r.CheckRateLimit(responseWith(403, map[string]string{
			HeaderRateRemaining: "4000",
		}))
		assert.NoError(t, err)
	})
}
