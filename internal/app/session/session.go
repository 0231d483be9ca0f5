// Package session 驱动一次交互式运行：询问姓名 → 查询 → 建表 → 统计 → 叙述 → 询问是否导出。
//
// 约束：
// - 输入输出全部通过注入的 io.Reader / io.Writer，不直接接触 os.Stdin/os.Stdout。
// - 一次运行只处理一个人物；运行上下文只保存在 Session 局部变量里。
// - 未找到人物时无限重试；输入流结束（EOF）是致命错误。
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/John-Robertt/RTStats/internal/domain"
	"github.com/John-Robertt/RTStats/internal/export"
	"github.com/John-Robertt/RTStats/internal/narrate"
	"github.com/John-Robertt/RTStats/internal/provider"
	"github.com/John-Robertt/RTStats/internal/stats"
	"github.com/John-Robertt/RTStats/internal/subject"
	"github.com/John-Robertt/RTStats/internal/table"
)

const (
	PromptSubject = "Please enter the name of the actor/actress you want to know more about: "
	PromptExport  = "Do you want a csv file with the filmography? Type Y for Yes / N for No: "
	PromptWrong   = "Wrong input. Please type Y or N: "

	MsgNotFound = "I've never heard of this person. Please try again."
	MsgBye      = "Ok, bye!"
)

// ErrInputClosed 表示在需要用户输入时输入流已经结束。
var ErrInputClosed = errors.New("input closed")

// State 是会话状态机的状态。
type State int

const (
	StateAwaitingSubject State = iota
	StateLookup
	StateNotFound
	StateBuildProfile
	StateBuildTable
	StateComputeAggregates
	StateNarrate
	StateAwaitExportChoice
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateAwaitingSubject:
		return "awaiting_subject"
	case StateLookup:
		return "lookup"
	case StateNotFound:
		return "not_found"
	case StateBuildProfile:
		return "build_profile"
	case StateBuildTable:
		return "build_table"
	case StateComputeAggregates:
		return "compute_aggregates"
	case StateNarrate:
		return "narrate"
	case StateAwaitExportChoice:
		return "await_export_choice"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Error 标记致命错误发生在哪个状态。
type Error struct {
	State State
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.State, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// StateOf 返回 err 发生时的状态；不是 *Error 时 ok=false。
func StateOf(err error) (State, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.State, true
	}
	return 0, false
}

// Options 是会话需要的外部配置（来自 config.EffectiveConfig 的子集）。
type Options struct {
	OutDir string

	// ExportSet=true 时不询问，直接按 Export 决定是否导出。
	Export    bool
	ExportSet bool

	ShowTable bool
}

// Session 持有一次运行的依赖。零值不可用：Source、In、Out 必须提供。
type Session struct {
	Source  provider.Source
	In      io.Reader
	Out     io.Writer
	Options Options

	Now    func() time.Time // nil 时使用 time.Now
	Logger *zap.Logger
}

// Result 是一次成功运行的产物。
type Result struct {
	Subject    subject.Name
	Profile    domain.Profile
	Table      table.Table
	Stats      stats.Aggregates
	ExportPath string // 未导出时为空
}

type run struct {
	*Session
	lines *bufio.Scanner
	log   *zap.Logger
	state State
}

// Run 执行完整的会话。initial 非空时作为第一次输入的姓名（未找到则回到提示）。
func (s *Session) Run(ctx context.Context, initial string) (Result, error) {
	if s.Source == nil || s.In == nil || s.Out == nil {
		return Result{}, errors.New("session: Source/In/Out 不能为空")
	}
	r := &run{Session: s, lines: bufio.NewScanner(s.In), log: s.Logger}
	if r.log == nil {
		r.log = zap.NewNop()
	}

	var res Result

	name, raw, err := r.lookup(ctx, initial)
	if err != nil {
		return res, err
	}
	res.Subject = name

	r.enter(StateBuildProfile)
	prof, err := s.Source.LookupProfile(ctx, name)
	if err != nil {
		return res, r.fail(err)
	}
	res.Profile = prof

	r.enter(StateBuildTable)
	t, err := table.Build(raw)
	if err != nil {
		return res, r.fail(err)
	}
	res.Table = t

	r.enter(StateComputeAggregates)
	res.Stats = stats.Compute(t, prof, r.now())

	r.enter(StateNarrate)
	if s.Options.ShowTable {
		export.Preview(s.Out, t)
		fmt.Fprintln(s.Out)
	}
	if err := narrate.Render(s.Out, narrate.Input{Name: name.Display(), Profile: prof, Stats: res.Stats}); err != nil {
		return res, r.fail(err)
	}
	fmt.Fprintln(s.Out)

	r.enter(StateAwaitExportChoice)
	yes, err := r.exportChoice()
	if err != nil {
		return res, r.fail(err)
	}
	if yes {
		p, err := export.WriteCSV(s.Options.OutDir, name, t)
		if err != nil {
			return res, r.fail(fmt.Errorf("导出 CSV 失败：%w", err))
		}
		res.ExportPath = p
		fmt.Fprintf(s.Out, "Filmography saved to %s\n", p)
	} else {
		fmt.Fprintln(s.Out, MsgBye)
	}

	r.enter(StateTerminal)
	return res, nil
}

// lookup 循环到拿到作品表为止；空输入与 ErrNotFound 走同一条重试路径。
func (r *run) lookup(ctx context.Context, initial string) (subject.Name, []domain.RawFilm, error) {
	pending := initial
	for {
		r.enter(StateAwaitingSubject)
		text := pending
		pending = ""
		if strings.TrimSpace(text) == "" {
			line, err := r.readLine(PromptSubject)
			if err != nil {
				return subject.Name{}, nil, r.fail(err)
			}
			text = line
		}

		name, err := subject.Parse(text)
		if err != nil {
			r.enter(StateNotFound)
			fmt.Fprintln(r.Out, MsgNotFound)
			continue
		}

		r.enter(StateLookup)
		raw, err := r.Source.LookupFilmography(ctx, name)
		if errors.Is(err, provider.ErrNotFound) {
			r.enter(StateNotFound)
			r.log.Info("subject not found", zap.String("subject", name.Slug()))
			fmt.Fprintln(r.Out, MsgNotFound)
			continue
		}
		if err != nil {
			return name, nil, r.fail(err)
		}
		return name, raw, nil
	}
}

func (r *run) exportChoice() (bool, error) {
	if r.Options.ExportSet {
		return r.Options.Export, nil
	}
	prompt := PromptExport
	for {
		line, err := r.readLine(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		prompt = PromptWrong
	}
}

func (r *run) readLine(prompt string) (string, error) {
	fmt.Fprint(r.Out, prompt)
	if r.lines.Scan() {
		return r.lines.Text(), nil
	}
	if err := r.lines.Err(); err != nil {
		return "", fmt.Errorf("读取输入失败：%w", err)
	}
	return "", ErrInputClosed
}

func (r *run) enter(s State) {
	r.log.Debug("state", zap.Stringer("from", r.state), zap.Stringer("to", s))
	r.state = s
}

func (r *run) fail(err error) error {
	return &Error{State: r.state, Err: err}
}

func (r *run) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
