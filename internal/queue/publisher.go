package queue

import (
    "context"
    "encoding/json"
    "time"

    "github.com/labstack/gommon/log"
    amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultDialTimeout bounds connecting and handshaking with the broker.
const DefaultDialTimeout = 2 * time.Second

// Publisher sends reservation events to a durable RabbitMQ queue.  Each
// Publish opens its own connection, so a broker outage never leaves a
// stale channel behind; failures are logged and returned so the caller
// can choose to ignore them.
type Publisher struct {
    url         string
    queue       string
    dialTimeout time.Duration
}

// NewPublisher returns a Publisher for the broker at url.  An empty queue
// name selects DefaultQueueName.
func NewPublisher(url, queue string) *Publisher {
    if queue == "" {
        queue = DefaultQueueName
    }
    return &Publisher{url: url, queue: queue, dialTimeout: DefaultDialTimeout}
}

// connectTimeout is the dial timeout capped by ctx's deadline.
func (p *Publisher) connectTimeout(ctx context.Context) time.Duration {
    d := p.dialTimeout
    if dl, ok := ctx.Deadline(); ok {
        d = min(d, time.Until(dl))
    }
    return max(d, time.Millisecond)
}

// Publish marshals ev and publishes it as a persistent message.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(p.connectTimeout(ctx)),
    })
    if err != nil {
        log.Errorf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Errorf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        p.queue, // name
        true,    // durable
        false,   // autoDelete
        false,   // exclusive
        false,   // noWait
        nil,     // args
    ); err != nil {
        log.Errorf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        log.Errorf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        MessageId:    ev.EventID,
        Type:         string(ev.Type),
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",      // default exchange
        p.queue, // routing key = queue name
        false,   // mandatory
        false,   // immediate
        pub,
    ); err != nil {
        log.Errorf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
