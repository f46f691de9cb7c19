package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/park1112/next-snp-management-sub002/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, c *Client) service.Event {
	t.Helper()
	select {
	case msg := <-c.Send:
		var ev service.Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return service.Event{}
	}
}

func TestHub_PublishRoutesByTopic(t *testing.T) {
	hub := startHub(t)

	all := NewClient(hub, nil, 1)
	payments := NewClient(hub, nil, 2)
	hub.HandleClientMessage(payments, []byte(`{"type":"subscribe","topic":"payment"}`))

	hub.Register(all)
	hub.Register(payments)
	require.Eventually(t, func() bool { return hub.OnlineCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Publish(service.Event{Type: service.EventStageAdvanced, EntityID: "s1"})
	hub.Publish(service.Event{Type: service.EventPaymentCreated, EntityID: "p1"})

	assert.Equal(t, "s1", receive(t, all).EntityID)
	assert.Equal(t, "p1", receive(t, all).EntityID)
	assert.Equal(t, "p1", receive(t, payments).EntityID, "only subscribed topic is delivered")
	assert.Empty(t, payments.Send)
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, 1)
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.OnlineCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Unregister(c)
	require.Eventually(t, func() bool { return hub.OnlineCount() == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHandleClientMessage_Unsubscribe(t *testing.T) {
	c := NewClient(NewHub(), nil, 1)
	c.Hub.HandleClientMessage(c, []byte(`{"type":"subscribe","topic":"contract"}`))
	assert.False(t, c.wants("payment"))
	assert.True(t, c.wants("contract"))

	c.Hub.HandleClientMessage(c, []byte(`{"type":"unsubscribe","topic":"contract"}`))
	assert.True(t, c.wants("payment"), "no subscriptions means everything")

	c.Hub.HandleClientMessage(c, []byte(`not json`))
	assert.True(t, c.wants("payment"))
}

func TestTopicOf(t *testing.T) {
	assert.Equal(t, "payment", topicOf("payment.created"))
	assert.Equal(t, "lookup", topicOf("lookup"))
}
