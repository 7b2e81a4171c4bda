package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "github.com/labstack/gommon/log"
    amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer drains the reservation events queue into an append-only log.
type Consumer struct {
    URL    string
    Queue  string
    LogDir string
}

// Start connects to RabbitMQ, declares the queue (durable) and consumes
// messages until ctx is cancelled.  It runs a reconnect loop with
// exponential backoff; processing errors are logged and the offending
// message is rejected so the service keeps operating.
func (c *Consumer) Start(ctx context.Context) error {
    if c.Queue == "" {
        c.Queue = DefaultQueueName
    }
    if c.LogDir == "" {
        c.LogDir = "logs"
    }
    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return ctx.Err()
        }
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            log.Warnf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warnf("reservation-consumer: consume loop ended: %v; reconnecting", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warnf("reservation-consumer: set QoS failed: %v", err)
    }

    if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handleMessage(d.Body); err != nil {
                log.Errorf("reservation-consumer: handle message failed: %v", err)
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// LogFile is the name of the event log inside Consumer.LogDir.
const LogFile = "reservations.log"

func (c *Consumer) handleMessage(body []byte) error {
    var ev ReservationEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" || ev.ReservationID == 0 {
        return errors.New("event missing type or reservation_id")
    }
    if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(c.LogDir, LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(formatEvent(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// formatEvent renders ev as one log line.  Status changes show the
// transition as FROM->TO.
func formatEvent(ev ReservationEvent) string {
    status := ev.Status
    if ev.PreviousStatus != "" && ev.PreviousStatus != ev.Status {
        status = ev.PreviousStatus + "->" + ev.Status
    }
    return fmt.Sprintf("[%s] %s | reservation_id=%d | restaurant_id=%d | user_id=%d | status=%s | time=%s | guests=%d | customer=%q\n",
        ev.OccurredAt, ev.Type, ev.ReservationID, ev.RestaurantID, ev.UserID, status, ev.ReservationTime, ev.Guests, ev.CustomerName)
}
