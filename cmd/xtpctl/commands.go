package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xtp/internal/config"
)

// usageError 表示参数或配置错误，退出码为 2。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// createRunCommand 创建 run 子命令。
func createRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "运行一次合成负载并输出统计",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（.yaml/.yml/.json）",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "worker 数量",
			},
			&cli.IntFlag{
				Name:    "tasks",
				Aliases: []string{"n"},
				Usage:   "根任务数量",
			},
			&cli.IntFlag{
				Name:    "depth",
				Aliases: []string{"d"},
				Usage:   "递归提交深度",
			},
			&cli.IntFlag{
				Name:  "fanout",
				Usage: "每层子任务数",
			},
			&cli.DurationFlag{
				Name:  "work",
				Usage: "每个任务模拟工作的耗时",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "结束方式: join 或 shutdown",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式: text 或 json",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "以 JSON 输出统计结果",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return &usageError{err: err}
			}

			logger, err := newLogger(cfg.Log, cmd.Root().ErrWriter)
			if err != nil {
				return &usageError{err: err}
			}

			rep, runErr := runWorkload(ctx, cfg, logger)
			if err := printReport(cmd.Root().Writer, rep, cmd.Bool("json")); err != nil {
				return err
			}
			return runErr
		},
	}
}

// loadConfig 合并默认值、配置文件和命令行参数。
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if cmd.IsSet("workers") {
		cfg.Pool.Workers = cmd.Int("workers")
	}
	if cmd.IsSet("tasks") {
		cfg.Workload.Tasks = cmd.Int("tasks")
	}
	if cmd.IsSet("depth") {
		cfg.Workload.Depth = cmd.Int("depth")
	}
	if cmd.IsSet("fanout") {
		cfg.Workload.Fanout = cmd.Int("fanout")
	}
	if cmd.IsSet("work") {
		cfg.Workload.Work = cmd.Duration("work")
	}
	if cmd.IsSet("mode") {
		cfg.Workload.Mode = cmd.String("mode")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger 按配置创建写入 w 的 slog.Logger。
func newLogger(c config.Log, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// printReport 输出统计结果。
func printReport(w io.Writer, rep report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	_, err := fmt.Fprintf(w,
		"pool:      %s (%d workers)\n"+
			"mode:      %s\n"+
			"expected:  %d\n"+
			"submitted: %d\n"+
			"executed:  %d\n"+
			"dropped:   %d\n"+
			"rejected:  %d\n"+
			"panics:    %d\n"+
			"elapsed:   %s\n",
		rep.Pool, rep.Workers, rep.Mode, rep.Expected,
		rep.Stats.Submitted, rep.Stats.Executed, rep.Stats.Dropped,
		rep.Stats.Rejected, rep.Stats.Panics, rep.Elapsed.Round(time.Microsecond),
	)
	return err
}
