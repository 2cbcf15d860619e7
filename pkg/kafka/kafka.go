package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const (
	LendingTopic = "library.lending"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

// Enabled reports whether brokers are configured at all.
func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

type EventType string

const (
	EventLoanIssued   EventType = "loan_issued"
	EventLoanReturned EventType = "loan_returned"
)

// EventLending is the payload published to LendingTopic after a loan
// transaction commits.
type EventLending struct {
	EventID    string    `json:"eventId"`
	Type       EventType `json:"type"`
	LoanUid    string    `json:"loanUid"`
	BookID     int       `json:"bookId"`
	MemberID   int       `json:"memberId"`
	FineAmount int64     `json:"fineAmount"`
	At         time.Time `json:"at"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
