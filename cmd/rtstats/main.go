package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/John-Robertt/RTStats/internal/app/session"
	"github.com/John-Robertt/RTStats/internal/config"
	"github.com/John-Robertt/RTStats/internal/infra/httpx"
	"github.com/John-Robertt/RTStats/internal/infra/logx"
	"github.com/John-Robertt/RTStats/internal/provider"
	"github.com/John-Robertt/RTStats/internal/provider/rottentomatoes"
	"github.com/John-Robertt/RTStats/internal/provider/wikipedia"
	"github.com/John-Robertt/RTStats/internal/table"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage(os.Stdout)
		return
	}

	switch args[0] {
	case "run":
		if code := runCmd(args[1:], os.Stdin, os.Stdout, os.Stderr); code != 0 {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage(os.Stderr)
		os.Exit(2)
	}
}

func runCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	for _, a := range args {
		if isHelp(a) {
			printRunUsage(stdout)
			return 0
		}
	}

	ra, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "参数错误：%v\n\n", err)
		printRunUsage(stderr)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		ConfigPath: ra.ConfigPath,
		Export:     ra.Export,
		ExportSet:  ra.ExportSet,
		OutDir:     ra.OutDir,
		ShowTable:  ra.ShowTable,
	})
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}

	logger := logx.New(eff.LogLevel, stderr)
	defer func() { _ = logger.Sync() }()

	client, err := httpx.NewClient(eff.ProxyURL, logger.Named("http"))
	if err != nil {
		fmt.Fprintf(stderr, "%s：proxy.url 无效：%v\n", config.ErrCodeInvalid, err)
		return 1
	}

	s := &session.Session{
		Source: provider.Web{
			Films:  rottentomatoes.Provider{BaseURL: eff.RTBaseURL},
			Bio:    wikipedia.Provider{BaseURL: eff.WikiBaseURL},
			Client: client,
			Logger: logger.Named("provider"),
		},
		In:  stdin,
		Out: stdout,
		Options: session.Options{
			OutDir:    eff.OutDir,
			Export:    eff.Export,
			ExportSet: eff.ExportSet,
			ShowTable: eff.ShowTable,
		},
		Logger: logger.Named("session"),
	}

	res, err := s.Run(context.Background(), strings.Join(ra.Name, " "))
	if err != nil {
		logger.Debug("run failed", zap.Error(err))
		fmt.Fprintln(stderr, fatalMessage(err))
		return 1
	}
	logger.Info("run done",
		zap.String("subject", res.Subject.Slug()),
		zap.Int("movies", res.Table.Len()),
		zap.String("export", res.ExportPath))
	return 0
}

// fatalMessage 把致命错误翻译为一行面向用户的说明。
func fatalMessage(err error) string {
	var (
		rowErr  *table.RowError
		httpErr *provider.HTTPStatusError
	)
	switch {
	case errors.Is(err, session.ErrInputClosed):
		return "输入已结束，退出。"
	case table.IsEmpty(err):
		return "该人物的作品表为空，无法统计。"
	case provider.IsMalformed(err):
		return fmt.Sprintf("人物信息页面结构无法识别：%v", err)
	case errors.As(err, &rowErr):
		return fmt.Sprintf("作品表数据格式错误：%v", rowErr)
	case errors.Is(err, provider.ErrNotFound):
		return fmt.Sprintf("人物信息页面不存在：%v", err)
	case errors.As(err, &httpErr):
		return fmt.Sprintf("站点返回异常状态：%v", err)
	default:
		return fmt.Sprintf("运行失败：%v", err)
	}
}

type runArgs struct {
	Name       []string
	ConfigPath string
	OutDir     string
	Export     bool
	ExportSet  bool
	ShowTable  bool
}

func parseRunArgs(args []string) (runArgs, error) {
	ra := runArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--config" || a == "--out":
			if i+1 >= len(args) {
				return runArgs{}, fmt.Errorf("%s 需要一个值", a)
			}
			i++
			if a == "--config" {
				ra.ConfigPath = args[i]
			} else {
				ra.OutDir = args[i]
			}
		case strings.HasPrefix(a, "--config="):
			ra.ConfigPath = strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "--out="):
			ra.OutDir = strings.TrimPrefix(a, "--out=")
		case a == "--export":
			ra.Export = true
			ra.ExportSet = true
		case strings.HasPrefix(a, "--export="):
			v := strings.TrimPrefix(a, "--export=")
			switch v {
			case "true":
				ra.Export = true
			case "false":
				ra.Export = false
			default:
				return runArgs{}, fmt.Errorf("--export 只能是 true 或 false，实际是 %q", v)
			}
			ra.ExportSet = true
		case a == "--table":
			ra.ShowTable = true
		case strings.HasPrefix(a, "-"):
			return runArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			ra.Name = append(ra.Name, a)
		}
	}

	if strings.TrimSpace(ra.ConfigPath) == "" && containsPrefix(args, "--config") {
		return runArgs{}, fmt.Errorf("--config 不能为空")
	}
	if strings.TrimSpace(ra.OutDir) == "" && containsPrefix(args, "--out") {
		return runArgs{}, fmt.Errorf("--out 不能为空")
	}

	return ra, nil
}

func containsPrefix(args []string, flag string) bool {
	for _, a := range args {
		if a == flag || strings.HasPrefix(a, flag+"=") {
			return true
		}
	}
	return false
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  rtstats run [name ...] [--export[=true|false]] [--table] [--out DIR] [--config FILE]

命令：
  run    查询演员并输出统计叙述

使用 "rtstats run --help" 查看详细说明。
`)
}

func printRunUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  rtstats run [name ...] [--export[=true|false]] [--table] [--out DIR] [--config FILE]

参数：
  name        演员姓名（可选；未给出或查无此人时交互询问）
  --export    不询问，直接导出 CSV；--export=false 表示不导出
  --table     在叙述前打印作品表
  --out       CSV 输出目录（默认当前目录）
  --config    配置文件路径（默认尝试 ./rtstats.json）
  -h, --help  显示帮助

环境变量（也可写在 ./.env）：
  RTSTATS_PROXY_URL  RTSTATS_LOG_LEVEL  RTSTATS_OUT_DIR
  RTSTATS_RT_BASE_URL  RTSTATS_WIKI_BASE_URL
`)
}
