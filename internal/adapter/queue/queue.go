package queue

// MessageQueue defines the interface for a message queue adapter. The bot
// publishes consultation lifecycle events; downstream consumers (analytics,
// follow-up schedulers) subscribe out of process.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// Subjects published by the bot.
const (
	SubjectConsultationCompleted = "consultation.completed"
)

// NoopQueue is used when no broker is configured; publishes are dropped.
type NoopQueue struct{}

func NewNoopQueue() MessageQueue { return NoopQueue{} }

func (NoopQueue) Publish(string, []byte) error                    { return nil }
func (NoopQueue) Subscribe(string, func(data []byte) error) error { return nil }
func (NoopQueue) Close() error                                    { return nil }
