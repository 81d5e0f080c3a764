// Package xpool 提供固定大小的 worker pool，基于无界阻塞队列调度任务。
//
// Pool 在 New 时启动固定数量的 worker goroutine，之后不会增减。
// 每个 worker 循环地从 [xqueue.Queue] 取出任务并执行。
// 支持以下特性：
//   - 无界任务队列，Submit 从不阻塞
//   - 优雅关闭 Join：等待所有已提交任务（包括任务中递归提交的任务）执行完毕后回收 worker
//   - 立即关闭 Shutdown：丢弃尚未开始的任务，等待正在执行的任务结束后回收 worker
//   - Current(ctx)：任务内部可定位所属的 Pool，用于递归提交子任务
//   - panic 恢复（单个任务失败不影响 pool，含堆栈跟踪日志）
//   - OpenTelemetry 指标与每个任务一个 span（默认使用全局 Provider）
//   - 可注入自定义日志记录器（WithLogger），多实例场景可设置名称（WithName）
//
// # 计数模型
//
// Pool 维护 outstanding 计数：初始值为 worker 数，每次成功 Submit 加一，
// worker 每次准备取下一个任务前减一。当且仅当队列为空、没有任务在执行、
// 所有 worker 都即将阻塞在取任务上时，outstanding 为零。Join 等待的就是这个时刻。
//
// 任务在完成前提交的子任务先计入 outstanding，因此 Join 会等待整棵任务树执行完毕。
//
// # 注意事项
//
//   - Join/Shutdown 不可在本 pool 的任务内调用，否则会死锁；
//     JoinContext/ShutdownContext 会检测这种调用并以 ErrJoinFromWorker 终止进程
//   - Pool 必须以 Join、Shutdown 或 Close 结束，否则 worker goroutine 泄漏
//   - Join/Shutdown 可重复调用，worker 只会被回收一次；回收完成后再调用立即返回
//   - 关闭开始后 Submit 返回 ErrPoolClosed，任务不会计入 outstanding
//   - Shutdown 不会中断正在执行的任务，没有单任务级别的取消或超时
//   - 队列无界，没有背压
//   - workers 为 0 合法：任务只会堆积，直到 Shutdown 将其丢弃
//
// # 任务上下文
//
// 任务签名为 func(ctx context.Context)。ctx 由 worker 启动时创建且之后不再变化，
// 其中记录了所属 Pool 和 worker 编号，可通过 Current 和 WorkerID 读取。
// 不需要 ctx 的函数可用 Func 适配。
package xpool
