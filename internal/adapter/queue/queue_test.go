package queue

import "testing"

func TestConsumerQueueName(t *testing.T) {
	if got := consumerQueueName(SubjectConsultationCompleted); got != "arogya.consultation.completed" {
		t.Errorf("unexpected queue name: %q", got)
	}
}

func TestNoopQueue(t *testing.T) {
	q := NewNoopQueue()
	if err := q.Publish(SubjectConsultationCompleted, []byte("{}")); err != nil {
		t.Errorf("noop publish: %v", err)
	}
	if err := q.Subscribe(SubjectConsultationCompleted, func([]byte) error { return nil }); err != nil {
		t.Errorf("noop subscribe: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("noop close: %v", err)
	}
}
