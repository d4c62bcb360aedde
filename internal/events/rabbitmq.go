package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrPoolExhausted is returned when every channel is in use
var ErrPoolExhausted = errors.New("no channels available in pool")

const publishTimeout = 5 * time.Second

// publishChannel is the part of *amqp.Channel the pool and publisher use
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// ChannelPool shares a fixed number of AMQP channels over one connection.
// Channels the broker closed are replaced, so the pool keeps its size.
type ChannelPool struct {
	conn       *amqp.Connection
	channels   chan publishChannel
	newChannel func() (publishChannel, error)
	mu         sync.Mutex
	closed     bool
	// missing counts slots whose channel was lost and could not be replaced yet
	missing   int
	queueName string
}

// NewChannelPool dials the broker and opens size channels, each declaring the
// durable queue
func NewChannelPool(url, queueName string, size int) (*ChannelPool, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	pool := &ChannelPool{conn: conn, queueName: queueName}
	pool.newChannel = pool.createChannel
	if err := pool.fill(size); err != nil {
		pool.Close()
		return nil, err
	}

	logger.GetLogger().Info("RabbitMQ channel pool created",
		zap.String("queue", queueName),
		zap.Int("size", size))
	return pool, nil
}

func (p *ChannelPool) fill(size int) error {
	p.channels = make(chan publishChannel, size)
	for i := 0; i < size; i++ {
		ch, err := p.newChannel()
		if err != nil {
			return fmt.Errorf("failed to create channel %d: %w", i, err)
		}
		p.channels <- ch
	}
	return nil
}

func (p *ChannelPool) createChannel() (publishChannel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return ch, nil
}

// get takes a channel from the pool. A closed channel, or a slot lost
// earlier, is replaced with a fresh channel.
func (p *ChannelPool) get() (publishChannel, error) {
	select {
	case ch, ok := <-p.channels:
		if !ok {
			return nil, errors.New("channel pool is closed")
		}
		if !ch.IsClosed() {
			return ch, nil
		}
		replacement, err := p.newChannel()
		if err != nil {
			p.mu.Lock()
			p.missing++
			p.mu.Unlock()
			return nil, fmt.Errorf("failed to replace closed channel: %w", err)
		}
		return replacement, nil
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.missing == 0 {
		return nil, ErrPoolExhausted
	}
	ch, err := p.newChannel()
	if err != nil {
		return nil, fmt.Errorf("failed to replace lost channel: %w", err)
	}
	p.missing--
	return ch, nil
}

// put returns a channel to the pool. A channel the broker closed while it was
// checked out is replaced; if that fails the slot is refilled on a later Get.
func (p *ChannelPool) put(ch publishChannel) {
	if ch == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		ch.Close()
		return
	}

	if ch.IsClosed() {
		replacement, err := p.newChannel()
		if err != nil {
			p.missing++
			logger.GetLogger().Warn("Could not replace closed RabbitMQ channel",
				zap.Int("missing", p.missing),
				zap.Error(err))
			return
		}
		ch = replacement
	}

	select {
	case p.channels <- ch:
	default:
		ch.Close()
	}
}

// Close closes all pooled channels and the connection
func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	if p.channels != nil {
		close(p.channels)
		for ch := range p.channels {
			ch.Close()
		}
	}
	if p.conn != nil {
		p.conn.Close()
	}
	logger.GetLogger().Info("RabbitMQ channel pool closed")
}

// RabbitPublisher writes persistent JSON messages to a durable queue
type RabbitPublisher struct {
	pool      *ChannelPool
	queueName string
}

// NewRabbitPublisher creates a publisher on top of pool
func NewRabbitPublisher(pool *ChannelPool, queueName string) *RabbitPublisher {
	return &RabbitPublisher{pool: pool, queueName: queueName}
}

func (p *RabbitPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := Encode(msg)
	if err != nil {
		return err
	}

	ch, err := p.pool.get()
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.pool.put(ch)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    msg.ID,
			Type:         string(msg.Type),
			Timestamp:    msg.OccurredAt,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", msg.Type, err)
	}

	logger.FromCtx(ctx).Debug("Published event",
		zap.String("event", string(msg.Type)),
		zap.String("event_id", msg.ID),
		zap.String("queue", p.queueName))
	return nil
}
