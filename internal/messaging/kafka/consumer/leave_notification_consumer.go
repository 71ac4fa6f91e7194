package consumer

import (
	"context"
	"encoding/json"

	"github.com/irisida/leave-management/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Notifier delivers a lifecycle notification to the affected employee.
type Notifier interface {
	NotifyLeaveRequest(ctx context.Context, event events.LeaveRequestEvent) error
}

// LogNotifier is the default delivery channel: it writes the notification to
// the application log. Mail or chat integrations implement Notifier the same
// way.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notifier")}
}

func (n *LogNotifier) NotifyLeaveRequest(ctx context.Context, event events.LeaveRequestEvent) error {
	n.logger.Info("leave request notification",
		zap.String("event_type", event.EventType),
		zap.String("leave_request_id", event.LeaveRequestID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("start_date", event.StartDate),
		zap.String("end_date", event.EndDate),
		zap.Int("days_requested", event.DaysRequested),
	)
	return nil
}

// ConsumeLeaveRequestLifecycle reads lifecycle events and hands each one to
// the notifier. Messages that fail to decode are committed and skipped;
// notifier failures leave the message uncommitted for redelivery.
func ConsumeLeaveRequestLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveRequestEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.NotifyLeaveRequest(ctx, event); err != nil {
			log.Error("notify leave request failed",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}
	}
}
