// Package notify fans ledger events out to interested parties. Delivery
// is fire and forget: a notification failure is logged and never fails
// the request that triggered it.
package notify

import (
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Event names follow "entity.action", e.g. "expenditure.approved" or
// "allocation.exhausted". Patterns may use "*" wildcards.
const (
	EventExpenditureSubmitted   = "expenditure.submitted"
	EventExpenditureVerified    = "expenditure.verified"
	EventExpenditureApproved    = "expenditure.approved"
	EventExpenditureRejected    = "expenditure.rejected"
	EventExpenditureFinalized   = "expenditure.finalized"
	EventExpenditureResubmitted = "expenditure.resubmitted"
	EventAllocationCreated      = "allocation.created"
	EventAllocationUpdated      = "allocation.updated"
	EventAllocationRolledBack   = "allocation.rolled_back"
	EventAllocationExhausted    = "allocation.exhausted"
	EventProposalApproved       = "proposal.approved"
	EventProposalRejected       = "proposal.rejected"
)

// Notification is one event payload handed to a sink.
type Notification struct {
	Event     string
	Subject   string
	Message   string
	Recipient string
}

// Sink delivers notifications. The default sink only logs, a deployment
// wires mail or chat delivery behind this interface.
type Sink interface {
	Send(notification Notification) error
}

// Notifier filters events against configured glob patterns and hands
// matches to its sink.
type Notifier struct {
	patterns []string
	sink     Sink
}

func New(patterns []string, sink Sink) *Notifier {
	if sink == nil {
		sink = logSink{}
	}

	return &Notifier{patterns: patterns, sink: sink}
}

func (n *Notifier) matches(event string) bool {
	for _, pattern := range n.patterns {
		if glob.Glob(pattern, event) {
			return true
		}
	}

	return false
}

// Publish delivers a notification if its event matches a configured
// pattern. Errors are logged and swallowed.
func (n *Notifier) Publish(notification Notification) {
	if !n.matches(notification.Event) {
		return
	}

	err := n.sink.Send(notification)
	if err != nil {
		log.Warn().
			Err(err).
			Str("event", notification.Event).
			Msg("notification dropped")
	}
}

type logSink struct{}

func (logSink) Send(notification Notification) error {
	log.Info().
		Str("event", notification.Event).
		Str("subject", notification.Subject).
		Str("recipient", notification.Recipient).
		Msg(notification.Message)

	return nil
}

var amounts = message.NewPrinter(language.English)

// FormatAmount renders a rupee amount with thousands grouping for
// notification bodies.
func FormatAmount(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	return amounts.Sprintf("₹%.2f", f)
}
