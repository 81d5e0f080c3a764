package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 表示配置格式。
type Format string

const (
	// FormatYAML 表示 YAML 格式。
	FormatYAML Format = "yaml"
	// FormatJSON 表示 JSON 格式。
	FormatJSON Format = "json"
)

// 结束工作负载的方式。
const (
	ModeJoin     = "join"
	ModeShutdown = "shutdown"
)

// 取值上限。
const (
	maxWorkers    = 1 << 16
	maxDepth      = 32
	maxFanout     = 1024
	maxTotalTasks = 1 << 24
)

// Config 是 xtpctl 的完整配置。
type Config struct {
	Pool     Pool     `koanf:"pool"`
	Log      Log      `koanf:"log"`
	Workload Workload `koanf:"workload"`
}

// Pool 描述 worker pool。
type Pool struct {
	// Workers 为 worker 数量。0 表示不执行任何任务，只能与 shutdown 模式搭配。
	Workers int `koanf:"workers"`
	// Name 用于日志和指标区分实例。
	Name string `koanf:"name"`
}

// Log 描述日志输出。
type Log struct {
	// Level 取值 debug/info/warn/error。
	Level string `koanf:"level"`
	// Format 取值 text/json。
	Format string `koanf:"format"`
}

// Workload 描述 xtpctl run 生成的合成负载。
type Workload struct {
	// Tasks 为根任务数量。
	Tasks int `koanf:"tasks"`
	// Depth 为每个根任务递归提交子任务的深度。
	Depth int `koanf:"depth"`
	// Fanout 为每层提交的子任务数。
	Fanout int `koanf:"fanout"`
	// Work 为每个任务模拟工作的耗时。
	Work time.Duration `koanf:"work"`
	// Mode 为 join 或 shutdown。
	Mode string `koanf:"mode"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		Pool: Pool{Workers: 4, Name: "xtpctl"},
		Log:  Log{Level: "info", Format: "text"},
		Workload: Workload{
			Tasks:  100,
			Fanout: 2,
			Mode:   ModeJoin,
		},
	}
}

// Load 从文件加载配置，格式由扩展名决定（.yaml/.yml/.json）。
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return Parse(data, format)
}

// Parse 从字节数据解析配置，空数据返回默认配置。
// 返回前会调用 Validate。
func Parse(data []byte, format Format) (Config, error) {
	parser, err := parserFor(format)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if len(data) > 0 {
		k := koanf.New(".")
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
		}
		if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查配置取值范围。
func (c Config) Validate() error {
	if c.Pool.Workers < 0 || c.Pool.Workers > maxWorkers {
		return fmt.Errorf("%w: pool.workers %d out of [0, %d]", ErrInvalid, c.Pool.Workers, maxWorkers)
	}
	if c.Workload.Tasks < 0 {
		return fmt.Errorf("%w: workload.tasks %d < 0", ErrInvalid, c.Workload.Tasks)
	}
	if c.Workload.Depth < 0 {
		return fmt.Errorf("%w: workload.depth %d < 0", ErrInvalid, c.Workload.Depth)
	}
	if c.Workload.Depth > maxDepth {
		return fmt.Errorf("%w: workload.depth %d > %d", ErrInvalid, c.Workload.Depth, maxDepth)
	}
	if c.Workload.Depth > 0 && c.Workload.Fanout < 1 {
		return fmt.Errorf("%w: workload.fanout must be >= 1 when depth > 0", ErrInvalid)
	}
	if c.Workload.Fanout > maxFanout {
		return fmt.Errorf("%w: workload.fanout %d > %d", ErrInvalid, c.Workload.Fanout, maxFanout)
	}
	if total := c.Workload.Total(); total > maxTotalTasks {
		return fmt.Errorf("%w: workload expands to %d tasks, limit %d", ErrInvalid, total, maxTotalTasks)
	}
	if c.Workload.Work < 0 {
		return fmt.Errorf("%w: workload.work %s < 0", ErrInvalid, c.Workload.Work)
	}
	switch c.Workload.Mode {
	case ModeJoin, ModeShutdown:
	default:
		return fmt.Errorf("%w: workload.mode %q", ErrInvalid, c.Workload.Mode)
	}
	// 没有 worker 时任务永远不会执行，join 会一直阻塞
	if c.Pool.Workers == 0 && c.Workload.Mode == ModeJoin && c.Workload.Tasks > 0 {
		return fmt.Errorf("%w: pool.workers 0 with workload.mode join never finishes", ErrInvalid)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// Total 返回负载完整执行时的任务总数。
// 超出 int64 时返回 math.MaxInt64。
func (w Workload) Total() int64 {
	if w.Tasks <= 0 {
		return 0
	}

	perRoot, level := int64(1), int64(1)
	for range w.Depth {
		if w.Fanout > 0 && level > math.MaxInt64/int64(w.Fanout) {
			return math.MaxInt64
		}
		level *= int64(w.Fanout)
		if perRoot > math.MaxInt64-level {
			return math.MaxInt64
		}
		perRoot += level
	}
	if perRoot > math.MaxInt64/int64(w.Tasks) {
		return math.MaxInt64
	}
	return int64(w.Tasks) * perRoot
}

// ParseLevel 将日志级别字符串转换为 slog.Level，大小写不敏感。
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, s)
	}
	return level, nil
}

func detectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, ext)
	}
}

func parserFor(format Format) (koanf.Parser, error) {
	switch format {
	case FormatYAML:
		return yaml.Parser(), nil
	case FormatJSON:
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
