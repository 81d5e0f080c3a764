package xqueue

import (
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// Queue 是无界阻塞 FIFO 队列，可安全地被多个 goroutine 并发使用。
// 必须通过 New 创建。
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	buf      *linkedlistqueue.Queue
	closed   bool
}

// New 创建空队列。
func New[T any]() *Queue[T] {
	q := &Queue[T]{buf: linkedlistqueue.New()}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Put 将 v 追加到队尾并唤醒一个等待中的消费者。
// 队列已关闭时返回 false，v 不会入队。Put 从不阻塞。
func (q *Queue[T]) Put(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.buf.Enqueue(v)
	q.notEmpty.Signal()
	return true
}

// Take 取出队首元素。
//
// 队列为空且未关闭时阻塞；队列已关闭且为空时返回零值和 false，
// 这是消费者的退出信号。
func (q *Queue[T]) Take() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.buf.Empty() {
		if q.closed {
			var zero T
			return zero, false
		}
		q.notEmpty.Wait()
	}

	v, _ := q.buf.Dequeue()
	// nil 接口值无法断言为接口类型 T，comma-ok 形式返回零值
	item, _ := v.(T)
	return item, true
}

// Close 关闭队列并唤醒所有等待者。已缓冲的元素保留，直到被 Take 取尽。
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closeLocked()
}

// Cancel 关闭队列、唤醒所有等待者并丢弃所有未被取走的元素。
// 返回本次丢弃的元素数量。
func (q *Queue[T]) Cancel() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closeLocked()
	dropped := q.buf.Size()
	q.buf.Clear()
	return dropped
}

// Len 返回当前缓冲的元素数量。
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Size()
}

// Closed 报告队列是否已关闭。
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue[T]) closeLocked() {
	q.closed = true
	q.notEmpty.Broadcast()
}
