package observability

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	keys []string
	err  error
}

func (p *recordingPublisher) PublishJSON(ctx context.Context, routingKey string, message interface{}, headers map[string]string) error {
	p.keys = append(p.keys, routingKey)
	return p.err
}

func TestPublishEventWithoutPublisherIsNoop(t *testing.T) {
	SetPublisher(nil)
	require.NoError(t, PublishEvent(context.Background(), "tickets.updated", EventEnvelope{}, nil))
}

func TestPublishEventCountsErrors(t *testing.T) {
	pub := &recordingPublisher{err: assert.AnError}
	SetPublisher(pub)
	t.Cleanup(func() { SetPublisher(nil) })

	before := testutil.ToFloat64(amqpPublishErrorsTotal)
	err := PublishEvent(context.Background(), "notifications.created", EventEnvelope{EventName: "x"}, nil)

	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"notifications.created"}, pub.keys)
	assert.Equal(t, before+1, testutil.ToFloat64(amqpPublishErrorsTotal))
}

func TestBuildHeaders(t *testing.T) {
	assert.Equal(t, map[string]string{"x-request-id": "r1", "trace_id": "t1"}, BuildHeaders("r1", "t1"))
	assert.Empty(t, BuildHeaders("", ""))
}

func TestSplitFullMethod(t *testing.T) {
	service, method := splitFullMethod("/auth.AuthService/ValidateToken")
	assert.Equal(t, "auth.AuthService", service)
	assert.Equal(t, "ValidateToken", method)

	service, method = splitFullMethod("bogus")
	assert.Equal(t, "unknown", service)
	assert.Equal(t, "unknown", method)
}

func TestRequestHelpers(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	req.Header.Set("X-Request-Id", "abc")
	assert.Equal(t, "10.0.0.1", IPFromRequest(req))
	assert.Equal(t, "abc", RequestIDFromRequest(req))

	bare := httptest.NewRequest("GET", "/ws", nil)
	assert.Equal(t, "192.0.2.1", IPFromRequest(bare))
	assert.NotEmpty(t, RequestIDFromRequest(bare))
}
