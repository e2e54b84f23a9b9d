package notify

import (
	"rbs/src/lib"
	"rbs/src/utils"
)

// KafkaPublisher implements booking.Publisher on the kafka broker.
type KafkaPublisher struct {
	ClientID string
}

func NewKafkaPublisher(clientID string) *KafkaPublisher {
	return &KafkaPublisher{ClientID: clientID}
}

func (p *KafkaPublisher) Publish(topic string, payload map[string]any) error {
	return lib.KafkaProduceMessage(p.ClientID, utils.WithSuffix(topic), payload)
}
