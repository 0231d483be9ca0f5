package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// ErrCodeNotFound 表示 --config 显式指定的文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// FileName 是 cwd 下自动发现的配置文件名（可选）。
	FileName = "rtstats.json"

	DefaultLogLevel = "warn"
)

// 环境变量（也可写在 cwd/.env 中）。
const (
	EnvProxyURL    = "RTSTATS_PROXY_URL"
	EnvLogLevel    = "RTSTATS_LOG_LEVEL"
	EnvOutDir      = "RTSTATS_OUT_DIR"
	EnvRTBaseURL   = "RTSTATS_RT_BASE_URL"
	EnvWikiBaseURL = "RTSTATS_WIKI_BASE_URL"
)

// CLIArgs 保留“是否显式指定”的信息，保证 --export=false 能覆盖其它来源。
type CLIArgs struct {
	ConfigPath string

	Export    bool
	ExportSet bool

	OutDir    string
	ShowTable bool
}

// FileConfig 对应 rtstats.json 的解析结构。
type FileConfig struct {
	Proxy       *ProxyConfig `json:"proxy"`
	OutDir      string       `json:"out_dir"`
	LogLevel    string       `json:"log_level"`
	RTBaseURL   string       `json:"rottentomatoes_base_url"`
	WikiBaseURL string       `json:"wikipedia_base_url"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置。
type EffectiveConfig struct {
	OutDir   string // absolute
	ProxyURL string
	LogLevel string

	RTBaseURL   string // 为空表示使用 provider 内置默认值
	WikiBaseURL string

	// ExportSet=true 时不再询问是否导出，直接按 Export 执行。
	Export    bool
	ExportSet bool
	ShowTable bool
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取配置并与环境变量、CLI 参数合并。
//
// 发现规则（固定）：
// 1) CLI 提供 --config：必须存在
// 2) 否则尝试 <cwd>/rtstats.json（可选）
// 3) <cwd>/.env 存在时载入（不覆盖已存在的环境变量）
//
// 覆盖优先级：CLI > 环境变量 > 配置文件 > 默认值。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, FileName)
	required := false
	if strings.TrimSpace(cli.ConfigPath) != "" {
		cfgPath = absCleanFrom(cwdAbs, cli.ConfigPath)
		required = true
	}

	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if required && !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}

	envPath := filepath.Join(cwdAbs, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: envPath, Err: err}
		}
	}

	return merge(cwdAbs, cli, fc, cfgPath)
}

func merge(cwdAbs string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	proxyURL = envOr(EnvProxyURL, proxyURL)
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy.url 无效：%w", err)}
		}
	}

	logLevel := envOr(EnvLogLevel, strings.TrimSpace(fc.LogLevel))
	if logLevel == "" {
		logLevel = DefaultLogLevel
	}
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("log_level 只能是 debug/info/warn/error，实际是 %q", logLevel)}
	}

	outDir := envOr(EnvOutDir, strings.TrimSpace(fc.OutDir))
	if strings.TrimSpace(cli.OutDir) != "" {
		outDir = cli.OutDir
	}
	if outDir == "" {
		outDir = cwdAbs
	}
	outDir = absCleanFrom(cwdAbs, outDir)

	rtBase := envOr(EnvRTBaseURL, strings.TrimSpace(fc.RTBaseURL))
	if err := validateBaseURL("rottentomatoes_base_url", rtBase); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	wikiBase := envOr(EnvWikiBaseURL, strings.TrimSpace(fc.WikiBaseURL))
	if err := validateBaseURL("wikipedia_base_url", wikiBase); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return EffectiveConfig{
		OutDir:      outDir,
		ProxyURL:    proxyURL,
		LogLevel:    logLevel,
		RTBaseURL:   rtBase,
		WikiBaseURL: wikiBase,
		Export:      cli.Export,
		ExportSet:   cli.ExportSet,
		ShowTable:   cli.ShowTable,
	}, nil
}

func validateBaseURL(field, v string) error {
	if v == "" {
		return nil
	}
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s 无效：%q", field, v)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s 必须是 http/https：%q", field, v)
	}
	return nil
}

// envOr 返回非空的环境变量值，否则返回 fallback。
func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
