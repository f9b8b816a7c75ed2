package rmqconsumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"manager-account-api/config"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

type (
	Consumer struct {
		cfg         config.MQ
		log         *zap.Logger
		conn        *amqp091.Connection
		routingKeys []string
		chConsume   *amqp091.Channel
		chDelivery  <-chan amqp091.Delivery
	}

	// auditEvent is the part of a published account event the audit log keeps.
	auditEvent struct {
		ID        string    `json:"event_id"`
		TS        time.Time `json:"time_stamp"`
		Type      string    `json:"event_type"`
		AccountID string    `json:"account_id"`
		ActorID   string    `json:"actor_id"`
	}
)

// New returns a consumer bound to routingKeys. A non-nil conn is shared
// with the publisher instead of dialing a second connection.
func New(cfg config.MQ, logger *zap.Logger, conn *amqp091.Connection, routingKeys []string) *Consumer {
	return &Consumer{
		cfg:         cfg,
		log:         logger,
		conn:        conn,
		routingKeys: routingKeys,
	}
}

func (c *Consumer) Connect(dsn string) error {
	var err error
	if c.conn == nil || c.conn.IsClosed() {
		c.conn, err = amqp091.Dial(dsn)
		if err != nil {
			c.conn = nil
			return fmt.Errorf("amqp dial: %w", err)
		}
	}
	c.chConsume, err = c.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range c.routingKeys {
		if err := c.chConsume.QueueBind(
			c.cfg.QueueName,
			rk,
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var err error
	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.delivery(msg); err != nil {
				// alert
				c.log.Error("mq read message error", zap.Error(err), zap.String("routing_key", msg.RoutingKey))
			}
		case <-ctx.Done():
			if c.chConsume != nil {
				_ = c.chConsume.Close()
			}
			return
		}
	}
}

// delivery writes one audit record per account event.
func (c *Consumer) delivery(msg amqp091.Delivery) error {
	var e auditEvent
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		return fmt.Errorf("decode event %s: %w", msg.MessageId, err)
	}
	if e.Type == "" {
		e.Type = msg.RoutingKey
	}

	c.log.Info("account audit",
		zap.String("event_id", e.ID),
		zap.String("event_type", e.Type),
		zap.String("account_id", e.AccountID),
		zap.String("actor_id", e.ActorID),
		zap.Time("time_stamp", e.TS),
	)

	return nil
}
