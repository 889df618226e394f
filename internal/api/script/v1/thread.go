package v1

import (
	"context"

	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"

	"go.starlark.net/starlark"
)

const queueKey = "openssl.errqueue"

// QueueFactory creates the error queue of a thread that has none yet
type QueueFactory func() *errqueue.Queue

// ThreadQueue returns the error queue bound to thread, creating it on first use
func ThreadQueue(thread *starlark.Thread, newQueue QueueFactory) *errqueue.Queue {
	if q, ok := thread.Local(queueKey).(*errqueue.Queue); ok {
		return q
	}
	q := newQueue()
	thread.SetLocal(queueKey, q)
	return q
}

// BindQueue attaches q to thread, replacing any queue it had
func BindQueue(thread *starlark.Thread, q *errqueue.Queue) {
	thread.SetLocal(queueKey, q)
}

func threadContext(thread *starlark.Thread, newQueue QueueFactory) context.Context {
	return errqueue.NewContext(context.Background(), ThreadQueue(thread, newQueue))
}
