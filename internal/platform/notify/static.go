package notify

import "context"

// StaticSender reports full delivery for every broadcast. Demo
// deployments and tests use it in place of a messaging gateway.
type StaticSender struct{}

func NewStaticSender() *StaticSender {
	return &StaticSender{}
}

func (s *StaticSender) Send(_ context.Context, b Broadcast) (Result, error) {
	return Result{Delivered: b.Recipients}, nil
}
