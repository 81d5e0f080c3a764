package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xtp/internal/config"
	"github.com/omeyang/xtp/pkg/util/xpool"
)

// errInterrupted 表示负载因 ctx 取消（通常是信号）被 Shutdown 提前结束。
var errInterrupted = errors.New("xtpctl: interrupted")

// report 是一次负载运行的结果。
type report struct {
	Pool     string        `json:"pool"`
	Workers  int           `json:"workers"`
	Mode     string        `json:"mode"`
	Expected int64         `json:"expected"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Stats    xpool.Stats   `json:"stats"`
}

// runWorkload 创建 pool，提交负载并按配置的方式结束。
//
// ctx 取消时立即 Shutdown 并返回 errInterrupted，report 仍然有效。
func runWorkload(ctx context.Context, cfg config.Config, logger *slog.Logger) (report, error) {
	w := cfg.Workload
	rep := report{
		Pool:     cfg.Pool.Name,
		Workers:  cfg.Pool.Workers,
		Mode:     w.Mode,
		Expected: w.Total(),
	}

	pool, err := xpool.New(cfg.Pool.Workers,
		xpool.WithName(cfg.Pool.Name),
		xpool.WithLogger(logger),
		xpool.WithContext(ctx),
	)
	if err != nil {
		return rep, err
	}

	start := time.Now()
	finished := make(chan struct{})
	interrupted := false

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-gctx.Done():
			logger.Warn("xtpctl: interrupted, shutting down pool", slog.Any("cause", context.Cause(gctx)))
			interrupted = true
			pool.Shutdown()
		case <-finished:
		}
		return nil
	})
	g.Go(func() error {
		defer close(finished)

		for range w.Tasks {
			if err := pool.Submit(node(w, w.Depth)); err != nil {
				// 只有并发的 Shutdown 会关闭队列
				logger.Debug("xtpctl: stop submitting", slog.Any("error", err))
				break
			}
		}

		switch w.Mode {
		case config.ModeShutdown:
			pool.Shutdown()
		default:
			pool.Join()
		}
		return nil
	})
	_ = g.Wait()

	rep.Elapsed = time.Since(start)
	rep.Stats = pool.Stats()

	logger.Info("xtpctl: workload finished",
		slog.String("mode", w.Mode),
		slog.Int64("executed", rep.Stats.Executed),
		slog.Int64("dropped", rep.Stats.Dropped),
		slog.Duration("elapsed", rep.Elapsed),
	)

	if interrupted {
		return rep, errInterrupted
	}
	return rep, nil
}

// node 返回任务树中深度为 depth 的节点：模拟工作后通过 Current 提交 fanout 个子节点。
func node(w config.Workload, depth int) xpool.Task {
	return func(ctx context.Context) {
		if w.Work > 0 {
			time.Sleep(w.Work)
		}
		if depth == 0 {
			return
		}

		p := xpool.Current(ctx)
		for range w.Fanout {
			if err := p.Submit(node(w, depth-1)); err != nil {
				return
			}
		}
	}
}
