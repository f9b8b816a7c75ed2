package mq

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"manager-account-api/config"
	"manager-account-api/internal/domain/account"
	dto "manager-account-api/internal/interface/api/rest/dto/account"
)

// "Rely on metrics, not guesses."
const bufferSize = 128

const (
	EventAccountRegistered = "account.registered"
	EventAdminAdded        = "account.admin_added"
	EventProfileUpdated    = "account.profile_updated"
	EventPasswordUpdated   = "account.password_updated"
	EventStatusUpdated     = "account.status_updated"
)

// RoutingKeys lists every event type; queues bind to each of them.
var RoutingKeys = []string{
	EventAccountRegistered,
	EventAdminAdded,
	EventProfileUpdated,
	EventPasswordUpdated,
	EventStatusUpdated,
}

type (
	InputCh  = chan Event
	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
		in    InputCh
	}
	Event struct {
		Id        uuid.UUID   `json:"event_id"`
		TS        time.Time   `json:"time_stamp"`
		Type      string      `json:"event_type"`
		AccountID string      `json:"account_id"`
		ActorID   string      `json:"actor_id,omitempty"`
		Payload   dto.Account `json:"account_payload"`
	}
	// NopPublisher drops events; used when no broker is configured.
	NopPublisher struct{}
)

func NewEvent(eventType string, actor account.ID, a *account.Account) Event {
	return Event{
		Id:        uuid.New(),
		TS:        time.Now().UTC(),
		Type:      eventType,
		AccountID: a.ID,
		ActorID:   actor,
		Payload:   dto.ToResponseAccount(*a),
	}
}

func (NopPublisher) Publish(Event) {}

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		in:  make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "accountmanager",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
		TLSClientConfig: nil,
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}

	r.log.Info("rabbitmq connected successfully")

	return err
}

func (r *RabbitMQ) Init() error {
	var err error
	if err = r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for _, rk := range RoutingKeys {
		if err = r.pubCh.QueueBind(q.Name, rk, r.cfg.Exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

// Publish never blocks the request path: when the buffer is full the event
// is dropped and logged.
func (r *RabbitMQ) Publish(e Event) {
	select {
	case r.in <- e:
	default:
		r.log.Warn("mq buffer full, event dropped",
			zap.String("event_type", e.Type),
			zap.String("account_id", e.AccountID),
		)
	}
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker")

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				// alert
				r.log.Error("mq publish error", zap.Error(err), zap.String("event_type", e.Type))
			}
		case <-ctx.Done():
			if r.pubCh != nil {
				_ = r.pubCh.Close()
			}
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		// alert
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.Id.String(),
		Timestamp:    e.TS,
		Type:         e.Type,
		Body:         b,
	}

	return r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		e.Type,
		false,
		false,
		pub,
	)
}

func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }
