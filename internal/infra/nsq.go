// README: NSQ producer initialization for the notification event stream.
package infra

import (
	"fmt"

	"github.com/nsqio/go-nsq"
)

func NewNSQProducer(addr string) (*nsq.Producer, error) {
	cfg := nsq.NewConfig()
	producer, err := nsq.NewProducer(addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("create nsq producer: %w", err)
	}
	if err := producer.Ping(); err != nil {
		return nil, fmt.Errorf("ping nsqd: %w", err)
	}
	return producer, nil
}
