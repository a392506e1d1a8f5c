package errx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRedis(t *testing.T) {
	assert.Nil(t, WrapRedis(nil))

	var appErr *AppError
	require.True(t, errors.As(WrapRedis(redis.Nil), &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.True(t, errors.Is(WrapRedis(redis.Nil), redis.Nil))

	boom := errors.New("connection refused")
	require.True(t, errors.As(WrapRedis(boom), &appErr))
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
	assert.Equal(t, RedisErrorMessage+": connection refused", appErr.Error())
}

func TestWrapOracleKeepsExistingAppError(t *testing.T) {
	inner := New(errors.New("quota"), http.StatusTooManyRequests, "rate limited")
	assert.Same(t, inner, WrapOracle(inner))

	var appErr *AppError
	require.True(t, errors.As(WrapOracle(errors.New("timeout")), &appErr))
	assert.Equal(t, OracleErrorMessage, appErr.Message)
}
