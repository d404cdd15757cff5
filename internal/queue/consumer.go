package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// EntryLogFile is the file, relative to the consumer's log directory,
// that receives one line per ticket event.
const EntryLogFile = "entry.log"

// StartEntryConsumer connects to RabbitMQ, declares the ticket events
// queue and appends every message to dir/entry.log.  It reconnects with
// exponential backoff and never returns.
func StartEntryConsumer(url, dir string) {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("entry-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(conn, dir)
        _ = conn.Close()
        log.Printf("entry-consumer: consume loop ended: %v; reconnecting", err)
        time.Sleep(2 * time.Second)
    }
}

func consumeLoop(conn *amqp.Connection, dir string) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("entry-consumer: set QoS failed: %v", err)
    }
    if _, err := ch.QueueDeclare(TicketEventsQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(TicketEventsQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := HandleMessage(d.Body, dir); err != nil {
            log.Printf("entry-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // do not requeue poison messages
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// HandleMessage decodes a TicketEvent and appends its log line to
// dir/entry.log, creating the directory when needed.
func HandleMessage(body []byte, dir string) error {
    var ev TicketEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    f, err := os.OpenFile(filepath.Join(dir, EntryLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatEntry(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatEntry renders ev as a single newline-terminated log line.
func FormatEntry(ev TicketEvent) string {
    switch ev.Type {
    case TicketIssued:
        return fmt.Sprintf("[%s] Ticket issued | ticket_id=%d | ticket=%s | user_id=%d | stadium_id=%d | gate=%d | seat=%d row=%d col=%d\n",
            ev.OccurredAt, ev.TicketID, ev.TicketNumber, ev.UserID, ev.StadiumID, ev.GateNumber, ev.SeatNumber, ev.RowNumber, ev.ColNumber)
    default:
        return fmt.Sprintf("[%s] %s | event_id=%s | ticket=%s\n", ev.OccurredAt, ev.Type, ev.EventID, ev.TicketNumber)
    }
}
