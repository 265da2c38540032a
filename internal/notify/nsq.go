// README: NSQ-backed notifier; publish failures are logged and swallowed.
package notify

import (
	"context"
	"encoding/json"

	"github.com/nsqio/go-nsq"
	"go.uber.org/zap"

	"navette/internal/observability"
)

const (
	TopicMissionAssigned = "mission_assigned"
	TopicStatusChanged   = "mission_status_changed"
)

type NSQNotifier struct {
	producer *nsq.Producer
	log      *zap.Logger
}

func NewNSQNotifier(producer *nsq.Producer, log *zap.Logger) *NSQNotifier {
	return &NSQNotifier{producer: producer, log: log}
}

func (n *NSQNotifier) MissionAssigned(ctx context.Context, e Event) {
	n.publish(TopicMissionAssigned, e)
}

func (n *NSQNotifier) StatusChanged(ctx context.Context, e Event) {
	n.publish(TopicStatusChanged, e)
}

// publish never returns an error: a notification failure must not fail the
// assignment or transition that triggered it.
func (n *NSQNotifier) publish(topic string, e Event) {
	body, err := json.Marshal(e)
	if err != nil {
		n.log.Warn("notify marshal failed", zap.String("topic", topic), zap.Error(err))
		observability.NotifyFailuresTotal.Inc()
		return
	}
	if err := n.producer.Publish(topic, body); err != nil {
		n.log.Warn("notify publish failed",
			zap.String("topic", topic),
			zap.String("mission_id", string(e.MissionID)),
			zap.Error(err))
		observability.NotifyFailuresTotal.Inc()
	}
}
