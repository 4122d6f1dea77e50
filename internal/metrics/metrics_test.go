package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/api/media", "200"))
	RecordRequest("GET", "/api/media", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/api/media", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordLogin(t *testing.T) {
	ok := testutil.ToFloat64(LoginAttempts.WithLabelValues("success"))
	bad := testutil.ToFloat64(LoginAttempts.WithLabelValues("failure"))

	RecordLogin(true)
	RecordLogin(false)
	RecordLogin(false)

	assert.Equal(t, ok+1, testutil.ToFloat64(LoginAttempts.WithLabelValues("success")))
	assert.Equal(t, bad+2, testutil.ToFloat64(LoginAttempts.WithLabelValues("failure")))
}

func TestRecordTokensSwept_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(TokensSwept)
	RecordTokensSwept(0)
	RecordTokensSwept(3)
	assert.Equal(t, before+3, testutil.ToFloat64(TokensSwept))
}
