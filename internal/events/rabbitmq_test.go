package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/stockalert"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu        sync.Mutex
	closed    bool
	dropOnPub bool
	published []amqp.Publishing
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.dropOnPub {
		c.closed = true
		return amqp.ErrClosed
	}
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

type channelFactory struct {
	created []*fakeChannel
	fail    bool
	// dropOnPub makes the next created channels close when published on
	dropOnPub bool
}

func (f *channelFactory) open() (publishChannel, error) {
	if f.fail {
		return nil, errors.New("connection lost")
	}
	ch := &fakeChannel{dropOnPub: f.dropOnPub}
	f.created = append(f.created, ch)
	return ch, nil
}

func newTestBill() *model.Bill {
	return &model.Bill{ID: "b1", BillNumber: "1"}
}

func testAlert() stockalert.Alert {
	return stockalert.Alert{Level: stockalert.LowStock, ProductID: "p1", Quantity: 3, Threshold: 10}
}

func newTestPool(t *testing.T, size int, factory *channelFactory) *ChannelPool {
	pool := &ChannelPool{queueName: "sale_events", newChannel: factory.open}
	require.NoError(t, pool.fill(size))
	t.Cleanup(pool.Close)
	return pool
}

func TestPublishWritesPersistentJSON(t *testing.T) {
	factory := &channelFactory{}
	pool := newTestPool(t, 1, factory)
	pub := NewRabbitPublisher(pool, "sale_events")

	msg := NewBillCommitted(newTestBill(), false)
	require.NoError(t, pub.Publish(context.Background(), msg))

	require.Len(t, factory.created[0].published, 1)
	sent := factory.created[0].published[0]
	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)
	assert.Equal(t, "application/json", sent.ContentType)
	assert.Equal(t, msg.ID, sent.MessageId)
	assert.Equal(t, "bill.committed", sent.Type)
}

func TestClosedChannelIsReplacedOnReturn(t *testing.T) {
	factory := &channelFactory{dropOnPub: true}
	pool := newTestPool(t, 2, factory)
	pub := NewRabbitPublisher(pool, "sale_events")

	factory.dropOnPub = false
	for i := 0; i < 5; i++ {
		// the first two publishes hit channels that die mid-publish
		_ = pub.Publish(context.Background(), NewStockAlert(testAlert()))
	}

	assert.Len(t, pool.channels, 2, "pool keeps its size")
	assert.NoError(t, pub.Publish(context.Background(), NewStockAlert(testAlert())))
}

func TestLostSlotIsRefilledByLaterGet(t *testing.T) {
	factory := &channelFactory{dropOnPub: true}
	pool := newTestPool(t, 1, factory)
	pub := NewRabbitPublisher(pool, "sale_events")

	factory.fail = true
	assert.Error(t, pub.Publish(context.Background(), NewStockAlert(testAlert())))
	assert.Len(t, pool.channels, 0)
	assert.Equal(t, 1, pool.missing)

	_, err := pool.get()
	assert.ErrorContains(t, err, "failed to replace lost channel")

	factory.fail = false
	factory.dropOnPub = false
	require.NoError(t, pub.Publish(context.Background(), NewStockAlert(testAlert())))
	assert.Equal(t, 0, pool.missing)
	assert.Len(t, pool.channels, 1)
}

func TestExhaustedPool(t *testing.T) {
	pool := newTestPool(t, 1, &channelFactory{})

	ch, err := pool.get()
	require.NoError(t, err)
	_, err = pool.get()
	assert.ErrorIs(t, err, ErrPoolExhausted)

	pool.put(ch)
	_, err = pool.get()
	assert.NoError(t, err)
}
