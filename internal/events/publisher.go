// Package events publishes donation lifecycle events to AMQP for offline
// consumers (analytics worker, notifications).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"patungan/internal/domain"
)

// DonationRecordedEvent is the wire shape published on each new donation.
// Replays never publish: the recorder only emits on a fresh insert.
type DonationRecordedEvent struct {
	DonationID string    `json:"donation_id"`
	CampaignID string    `json:"campaign_id"`
	Amount     int64     `json:"amount"`
	Provider   string    `json:"provider"`
	RecordedAt time.Time `json:"recorded_at"`
}

// AMQPPublisher publishes to a durable fanout exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// DialPublisher connects to the broker and declares the exchange.
func DialPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// DonationRecorded publishes one event. Failures are the caller's to log;
// they must never fail the payment path.
func (p *AMQPPublisher) DonationRecorded(ctx context.Context, d *domain.Donation) error {
	body, err := json.Marshal(DonationRecordedEvent{
		DonationID: d.ID,
		CampaignID: d.CampaignID,
		Amount:     d.Amount,
		Provider:   d.Provider,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.channel.Publish(p.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
