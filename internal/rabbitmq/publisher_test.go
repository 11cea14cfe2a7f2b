package rabbitmq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/telemetry"
)

func TestNewPublisherWithoutURLIsNoop(t *testing.T) {
	p := NewPublisher("", "bandhan.events")

	assert.Equal(t, "noop", PublisherMode(p))
	assert.Equal(t, "empty amqp url", PublisherNoopReason(p))
	require.NoError(t, p.Publish(context.Background(), "audit.interaction", telemetry.AuditEnvelope{EventType: "audit_log"}))
	require.NoError(t, p.PublishJSON(context.Background(), "tickets.updated", map[string]int{"ticket_id": 1}, nil))
	require.NoError(t, p.Close())
}
