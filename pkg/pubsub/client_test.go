package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/foodorder-backend/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	assert.Equal(t, "projects/p1/topics/orders", TopicResourceName("p1", "orders"))
	assert.Equal(t, "projects/x/topics/y", TopicResourceName("p1", "projects/x/topics/y"))
	assert.Empty(t, TopicResourceName("", "orders"))
	assert.Empty(t, TopicResourceName("p1", "  "))
}

func TestNewClientValidatesConfig(t *testing.T) {
	_, err := NewClient(context.Background(), config.PubSubConfig{OrderEventsTopic: "t"}, nil)
	require.ErrorIs(t, err, errProjectIDRequired)

	_, err = NewClient(context.Background(), config.PubSubConfig{ProjectID: "p"}, nil)
	require.ErrorIs(t, err, errTopicRequired)
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	assert.Nil(t, c.OrderEventsPublisher())
	assert.Empty(t, c.OrderEventsTopic())
	assert.NoError(t, c.Close())
	assert.Error(t, c.Ping(context.Background()))
}

func TestClientOptionsPrecedence(t *testing.T) {
	assert.Empty(t, clientOptions(config.PubSubConfig{}))
	assert.Len(t, clientOptions(config.PubSubConfig{CredentialsFile: "/tmp/key.json"}), 1)
	assert.Len(t, clientOptions(config.PubSubConfig{CredentialsJSON: `{"type":"service_account"}`, CredentialsFile: "/tmp/key.json"}), 1)
}
