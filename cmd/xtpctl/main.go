// xtpctl 在固定大小的 worker pool 上运行合成负载，用于观察 Join 与 Shutdown 的行为。
//
// 用法:
//
//	xtpctl [全局选项] run [命令参数]
//
// run 命令参数:
//
//	-c, --config      配置文件（.yaml/.yml/.json）
//	-w, --workers     worker 数量
//	-n, --tasks       根任务数量
//	-d, --depth       每个根任务递归提交子任务的深度
//	    --fanout      每层提交的子任务数
//	    --work        每个任务模拟工作的耗时
//	    --mode        结束方式: join（等待全部完成）或 shutdown（丢弃未开始的任务）
//	    --log-level   日志级别 (debug/info/warn/error)
//	    --log-format  日志格式 (text/json)
//	    --json        以 JSON 输出统计结果
//
// 命令行参数覆盖配置文件中的同名字段。
//
// 运行期间收到 SIGINT/SIGTERM 时立即 Shutdown：正在执行的任务结束后退出，
// 队列中的任务被丢弃，统计结果照常输出。
//
// 退出码:
//
//	0: 负载执行完成
//	1: 执行失败或被信号中断
//	2: 参数或配置错误
//
// 示例:
//
//	xtpctl run -w 8 -n 1000                     # 8 个 worker 执行 1000 个任务
//	xtpctl run -n 10 -d 3 --fanout 4            # 递归任务树，每个根任务 85 个节点
//	xtpctl run -n 100 --work 10ms --mode shutdown
//	xtpctl run -c xtp.yaml --json
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// createApp 创建 CLI 应用。
func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xtpctl",
		Usage:     "在固定大小的 worker pool 上运行合成负载",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    stdout,
		ErrWriter: stderr,
		Commands:  []*cli.Command{createRunCommand()},
		// 由 run() 统一处理退出码映射，禁止 urfave/cli 直接调用 os.Exit。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

// run 执行 CLI 并返回退出码。
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)

	if err := app.Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
