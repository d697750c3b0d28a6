package events

import (
	"encoding/json"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chemwatch/chemwatch/internal/domain"
)

// ScanEventMessage is the audit-topic envelope for one applied scan.
type ScanEventMessage struct {
	EventID   uuid.UUID `json:"eventID"`
	Tag       string    `json:"tag"`
	Quantity  int       `json:"quantity"`
	Matched   bool      `json:"matched"`
	ItemID    int       `json:"itemID,omitempty"`
	ItemName  string    `json:"itemName,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// KafkaScanProducer publishes applied scans to the audit topic.
// Best-effort only, a down broker never blocks the scan path.
type KafkaScanProducer struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaScanProducer(brokers, topic string) (*KafkaScanProducer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": brokers})
	if err != nil {
		return nil, err
	}

	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logrus.WithFields(logrus.Fields{
						"TOPIC_PRTN": ev.TopicPartition,
					}).Warn("scan event delivery failed")
				}
			}
		}
	}()

	return &KafkaScanProducer{
		producer: p,
		topic:    topic,
	}, nil
}

func (p *KafkaScanProducer) PublishScan(scan domain.ScanEvent, matched *domain.Item) {
	msg := ScanEventMessage{
		EventID:   uuid.New(),
		Tag:       scan.Tag,
		Quantity:  scan.Quantity,
		Timestamp: time.Now().Unix(),
	}
	if matched != nil {
		msg.Matched = true
		msg.ItemID = matched.ID
		msg.ItemName = matched.Name
	}

	b, err := json.Marshal(msg)
	if err != nil {
		logrus.Errorf("unable to marshal scan event: %v", err)
		return
	}

	err = p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Value:          b,
	}, nil)
	if err != nil {
		logrus.Errorf("unable to produce scan event: %v", err)
	}
}

func (p *KafkaScanProducer) Close() {
	p.producer.Close()
}
