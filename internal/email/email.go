package email

import (
	"context"
	"fmt"

	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/DavidMoa26/flights/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

// Send writes the notification to stdout. A real deployment would plug an
// SMTP or provider client in here; the worker only cares about the contract.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	switch event.Type {
	case kafka.EventBookingCancelled:
		fmt.Printf("email to %s: booking %s cancelled, %s refunded\n",
			event.PassengerEmail, event.Reference, domain.FormatCents(event.TotalPriceCents))
	default:
		fmt.Printf("email to %s: booking %s confirmed for %d passenger(s), total %s\n",
			event.PassengerEmail, event.Reference, event.Passengers, domain.FormatCents(event.TotalPriceCents))
	}
	return nil
}
