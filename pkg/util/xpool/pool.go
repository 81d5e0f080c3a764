package xpool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/xtp/pkg/util/xqueue"
)

// maxWorkers 是 worker 数量上限。
const maxWorkers = 1 << 16

// Task 是提交给 Pool 的工作单元，最多被执行一次。
// ctx 为执行该任务的 worker 的上下文，见 Current。
type Task func(ctx context.Context)

// Func 将无参函数适配为 Task。fn 为 nil 时返回 nil。
func Func(fn func()) Task {
	if fn == nil {
		return nil
	}
	return func(context.Context) { fn() }
}

var _ io.Closer = (*Pool)(nil)

// Pool 是固定大小的 worker pool。
//
// Submit、Join、Shutdown、Stats 可安全地从多个 goroutine 并发调用。
type Pool struct {
	id      string
	workers int
	opts    options
	logger  *slog.Logger
	queue   *xqueue.Queue[Task]
	inst    *instruments

	mu          sync.Mutex
	idle        *sync.Cond // outstanding 归零时广播
	outstanding int
	live        int

	wg       sync.WaitGroup
	stopOnce sync.Once
	done     chan struct{}

	active    atomic.Int64
	submitted atomic.Int64
	executed  atomic.Int64
	dropped   atomic.Int64
	rejected  atomic.Int64
	panics    atomic.Int64
}

// New 创建 Pool 并立即启动 workers 个 worker。
//
// workers 取值范围 [0, 65536]，为 0 时 pool 不会执行任何任务。
// 超出范围返回 ErrInvalidWorkers，opts 中含 nil 返回 ErrNilOption。
func New(workers int, opts ...Option) (*Pool, error) {
	if workers < 0 || workers > maxWorkers {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(&o)
	}

	p := &Pool{
		id:          uuid.NewString(),
		workers:     workers,
		opts:        o,
		queue:       xqueue.New[Task](),
		outstanding: workers,
		live:        workers,
		done:        make(chan struct{}),
	}
	p.idle = sync.NewCond(&p.mu)

	logger := o.logger.With(slog.String("pool_id", p.id))
	if o.name != "" {
		logger = logger.With(slog.String("pool", o.name))
	}
	p.logger = logger

	inst, err := newInstruments(p)
	if err != nil {
		return nil, err
	}
	p.inst = inst

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	p.logger.Debug("xpool: started", slog.Int("workers", workers))
	return p, nil
}

// Submit 提交任务，从不阻塞。
//
// 队列已关闭时返回 ErrPoolClosed，任务不会被执行也不计入 outstanding。
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	p.mu.Lock()
	accepted := p.queue.Put(task)
	if accepted {
		p.outstanding++
	}
	p.mu.Unlock()

	if !accepted {
		p.rejected.Add(1)
		p.inst.rejected.Add(context.Background(), 1, p.inst.attrs)
		return ErrPoolClosed
	}
	p.submitted.Add(1)
	p.inst.submitted.Add(context.Background(), 1, p.inst.attrs)
	return nil
}

// Join 优雅关闭：等待 outstanding 归零，然后关闭队列并等待所有 worker 退出。
//
// 不可在本 pool 的任务内调用。workers 为 0 且有待执行任务时，
// Join 会一直阻塞，直到其他 goroutine 调用 Shutdown。
func (p *Pool) Join() {
	p.mu.Lock()
	for p.outstanding != 0 {
		p.idle.Wait()
	}
	p.mu.Unlock()

	p.queue.Close()
	p.finishWorkers("join")
}

// JoinContext 与 Join 相同，但先用 ctx 检查调用方是否为本 pool 的任务。
//
// 在本 pool 的任务内调用（ctx 为任务收到的 ctx 或由其派生）会以
// ErrJoinFromWorker panic；该 panic 不会被 worker 的 panic 恢复吞掉，进程终止。
func (p *Pool) JoinContext(ctx context.Context) {
	p.mustNotBeWorker(ctx, "Join")
	p.Join()
}

// Shutdown 立即关闭：丢弃队列中尚未开始的任务，等待正在执行的任务结束后回收 worker。
// 不等待 outstanding 归零。
func (p *Pool) Shutdown() {
	p.mu.Lock()
	dropped := p.queue.Cancel()
	p.outstanding -= dropped
	if p.outstanding == 0 {
		p.idle.Broadcast()
	}
	p.mu.Unlock()

	if dropped > 0 {
		p.dropped.Add(int64(dropped))
		p.inst.dropped.Add(context.Background(), int64(dropped), p.inst.attrs)
		p.logger.Warn("xpool: queued tasks dropped", slog.Int("dropped", dropped))
	}
	p.finishWorkers("shutdown")
}

// ShutdownContext 与 Shutdown 相同，调用方检查同 JoinContext。
func (p *Pool) ShutdownContext(ctx context.Context) {
	p.mustNotBeWorker(ctx, "Shutdown")
	p.Shutdown()
}

// mustNotBeWorker 在 ctx 属于本 pool 的 worker 时 panic，否则等待自身退出会死锁。
func (p *Pool) mustNotBeWorker(ctx context.Context, op string) {
	if Current(ctx) == p {
		panic(fmt.Errorf("%w: %s", ErrJoinFromWorker, op))
	}
}

// Close 等价于 Join，实现 io.Closer，始终返回 nil。
func (p *Pool) Close() error {
	p.Join()
	return nil
}

// Done 返回一个 channel，所有 worker 退出后关闭。
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// ID 返回 pool 实例的唯一标识。
func (p *Pool) ID() string {
	return p.id
}

// Name 返回 WithName 设置的名称。
func (p *Pool) Name() string {
	return p.opts.name
}

// Workers 返回创建时指定的 worker 数量。
func (p *Pool) Workers() int {
	return p.workers
}

// finishWorkers 等待所有 worker 退出。可重复、并发调用。
func (p *Pool) finishWorkers(mode string) {
	p.wg.Wait()

	p.stopOnce.Do(func() {
		if err := p.inst.unregister(); err != nil {
			p.logger.Warn("xpool: unregister metrics callback failed", slog.Any("error", err))
		}
		close(p.done)
		p.logger.Debug("xpool: stopped",
			slog.String("mode", mode),
			slog.Int64("executed", p.executed.Load()),
			slog.Int64("dropped", p.dropped.Load()),
		)
	})
}

// worker 是 worker goroutine 的主循环。
//
// 每轮先 finish 归还上一轮占用的计数（首轮归还初始计数），再取任务；
// 队列关闭且取尽后退出。
func (p *Pool) worker(id int) {
	defer p.wg.Done()
	defer p.exit()

	ctx := withWorker(p.opts.baseCtx, p, id)
	for {
		p.finish()
		task, ok := p.queue.Take()
		if !ok {
			return
		}
		p.execute(ctx, task)
	}
}

func (p *Pool) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.outstanding--
	if p.outstanding == 0 {
		p.idle.Broadcast()
	}
}

func (p *Pool) exit() {
	p.mu.Lock()
	p.live--
	p.mu.Unlock()
}

// execute 在调用方 goroutine 上执行 task，不持有任何锁。
// panic 被恢复并记录，之后 worker 继续处理下一个任务。
func (p *Pool) execute(ctx context.Context, task Task) {
	ctx, span := p.inst.startSpan(ctx)
	start := time.Now()
	p.active.Add(1)

	defer func() {
		r := recover()
		p.active.Add(-1)
		p.executed.Add(1)
		p.inst.recordExecuted(ctx, time.Since(start))

		if err, ok := r.(error); ok && errors.Is(err, ErrJoinFromWorker) {
			p.logger.Error("xpool: fatal misuse", slog.Any("error", err))
			panic(r)
		}
		if r != nil {
			p.panics.Add(1)
			p.inst.recordPanic(ctx, span, r)
			p.logger.Error("xpool: task panic recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			if p.opts.panicHandler != nil {
				p.opts.panicHandler(ctx, r)
			}
		}
		span.End()
	}()

	task(ctx)
}
