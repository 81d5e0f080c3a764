package config

import "errors"

var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("config: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("config: unsupported config format")

	// ErrLoadFailed 表示配置文件读取失败。
	ErrLoadFailed = errors.New("config: failed to load config")

	// ErrParseFailed 表示配置解析失败。
	ErrParseFailed = errors.New("config: failed to parse config")

	// ErrInvalid 表示配置值不合法。
	ErrInvalid = errors.New("config: invalid config")
)
