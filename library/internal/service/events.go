package service

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/polyakovs/library-lending/library/internal/model"
	cb "github.com/polyakovs/library-lending/pkg/circuit_breaker"
	"github.com/polyakovs/library-lending/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=events.go -destination=mocks/mock.go

// Publisher emits lending events after a loan transaction commits.
// Publishing is best effort: a failed publish never fails the operation.
type Publisher interface {
	PublishLending(event kafka.EventLending) error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	breaker  cb.CircuitBreaker
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *kafkaPublisher {
	const (
		recordLength     = 20
		breakerTimeout   = 10 * time.Second
		failPercentile   = 0.5
		recoveryRequests = 5
	)
	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
		breaker:  cb.New(recordLength, breakerTimeout, failPercentile, recoveryRequests),
	}
}

func (p *kafkaPublisher) PublishLending(event kafka.EventLending) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: p.topic, Value: sarama.StringEncoder(data)}
	return p.breaker.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	})
}

type nopPublisher struct{}

// NewNopPublisher is used when no kafka brokers are configured.
func NewNopPublisher() nopPublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishLending(kafka.EventLending) error {
	return nil
}

func newIssuedEvent(loan model.Loan, bookID int) kafka.EventLending {
	return kafka.EventLending{
		EventID:  uuid.NewString(),
		Type:     kafka.EventLoanIssued,
		LoanUid:  loan.LoanUid,
		BookID:   bookID,
		MemberID: loan.MemberID,
		At:       loan.IssueDate,
	}
}

func newReturnedEvent(loan model.Loan) kafka.EventLending {
	at := time.Now()
	if loan.ReturnDate != nil {
		at = *loan.ReturnDate
	}
	return kafka.EventLending{
		EventID:    uuid.NewString(),
		Type:       kafka.EventLoanReturned,
		LoanUid:    loan.LoanUid,
		MemberID:   loan.MemberID,
		FineAmount: loan.FineAmount,
		At:         at,
	}
}
