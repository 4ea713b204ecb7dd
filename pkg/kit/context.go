package kit

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"example.com/KitTools/pkg/config"
	"example.com/KitTools/pkg/dispatcher"
	"example.com/KitTools/pkg/executor"
)

// ExecutorFactory 按 stage 创建执行器
// kit 包不直接依赖 SSH 层,由上层 (cmd) 决定远程执行器怎么建
type ExecutorFactory func(stage *config.Stage, host string) (executor.Executor, error)

// Context 任务执行上下文,贯穿所有任务调用
// Context 是不可变的,WithStage / WithHost 返回派生的新实例,
// 并发的任务各自拿自己的派生上下文互不干扰
type Context struct {
	cfg     *config.Config
	stage   *config.Stage
	host    string
	disp    *dispatcher.Dispatcher
	factory ExecutorFactory

	exec  executor.Executor
	local executor.Executor

	yes    bool
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// New 创建根上下文
func New(cfg *config.Config, stage *config.Stage, disp *dispatcher.Dispatcher, factory ExecutorFactory) (*Context, error) {
	kctx := &Context{
		cfg:     cfg,
		stage:   stage,
		disp:    disp,
		factory: factory,
		local:   executor.NewLocal(""),
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
	if stage != nil {
		hosts := stage.Hosts()
		if len(hosts) > 0 {
			kctx.host = hosts[0]
		}
		exec, err := factory(stage, kctx.host)
		if err != nil {
			return nil, err
		}
		kctx.exec = exec
	}
	return kctx, nil
}

// WithStage 派生一个切换到指定 stage 的新上下文,原上下文不变
func (c *Context) WithStage(name string) (*Context, error) {
	stage, ok := c.cfg.GetStage(name)
	if !ok {
		return nil, fmt.Errorf("stage %q not found, declared stages: %v", name, c.cfg.StageNames())
	}
	derived := *c
	derived.stage = stage
	derived.host = ""
	derived.exec = nil
	if hosts := stage.Hosts(); len(hosts) > 0 {
		derived.host = hosts[0]
	}
	exec, err := c.factory(stage, derived.host)
	if err != nil {
		return nil, err
	}
	derived.exec = exec
	return &derived, nil
}

// WithHost 派生一个固定到 stage 中某台主机的新上下文
// 多主机 stage 并行执行时,每台主机各拿一份
func (c *Context) WithHost(host string) (*Context, error) {
	exec, err := c.factory(c.stage, host)
	if err != nil {
		return nil, err
	}
	derived := *c
	derived.host = host
	derived.exec = exec
	return &derived, nil
}

// Config 返回加载的配置
func (c *Context) Config() *config.Config {
	return c.cfg
}

// Stage 返回当前 stage,可能为 nil
func (c *Context) Stage() *config.Stage {
	return c.stage
}

// Host 返回当前绑定的主机别名,本地 stage 下为空
func (c *Context) Host() string {
	return c.host
}

// Dispatcher 返回事件分发器
func (c *Context) Dispatcher() *dispatcher.Dispatcher {
	return c.disp
}

// IsLocal 当前 stage 是否在本机执行
func (c *Context) IsLocal() bool {
	return c.stage == nil || !c.stage.IsRemote()
}

// IsRemote 当前 stage 是否通过 SSH 执行
func (c *Context) IsRemote() bool {
	return !c.IsLocal()
}

// Executor 返回当前 stage 的执行器
func (c *Context) Executor() executor.Executor {
	if c.exec != nil {
		return c.exec
	}
	return c.local
}

// Run 在当前 stage 的执行器上运行命令
func (c *Context) Run(ctx context.Context, cmd string, opts *executor.Options) (*executor.Result, error) {
	if opts == nil {
		opts = &executor.Options{Check: true}
	}
	return c.Executor().Run(ctx, cmd, opts)
}

// Local 无论当前 stage 是什么,都在本机运行命令
func (c *Context) Local(ctx context.Context, cmd string, opts *executor.Options) (*executor.Result, error) {
	if opts == nil {
		opts = &executor.Options{Check: true}
	}
	return c.local.Run(ctx, cmd, opts)
}

// Copy 把本地文件复制到当前 stage (远程走 SFTP,本地是空操作)
func (c *Context) Copy(ctx context.Context, src, dst string) error {
	return c.Executor().Copy(ctx, src, dst)
}

// MkdTemp 在当前 stage 上创建临时目录
func (c *Context) MkdTemp(ctx context.Context) (string, error) {
	return c.Executor().MkdTemp(ctx)
}

// PathExists 判断路径在当前 stage 上是否存在
func (c *Context) PathExists(ctx context.Context, path string) (bool, error) {
	return c.Executor().PathExists(ctx, path)
}

// StageNames 返回配置中声明的所有 stage 名
func (c *Context) StageNames() []string {
	return c.cfg.StageNames()
}

// StackNames 返回配置中声明的所有 stack 名
func (c *Context) StackNames() []string {
	return c.cfg.StackNames()
}

// SetOutput 重定向 Info/Warning/Error 的输出,主要给测试用
func (c *Context) SetOutput(out, errOut io.Writer) {
	c.out = out
	c.errOut = errOut
}

// SetInput 重定向 Confirm 读取的输入,主要给测试用
func (c *Context) SetInput(in io.Reader) {
	c.in = in
}

// SetYes true 时 Confirm 不再询问,直接通过 (对应 --yes)
func (c *Context) SetYes(yes bool) {
	c.yes = yes
}

// Confirm 在执行有破坏性的操作前向用户确认
// --yes 模式下直接返回 true,输入不是 y/yes 时返回 false
func (c *Context) Confirm(format string, args ...any) bool {
	if c.yes {
		return true
	}
	fmt.Fprintf(c.errOut, format+" [y/N]: ", args...)
	reader := bufio.NewReader(c.in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

// Info 打印一条青色的提示信息
func (c *Context) Info(format string, args ...any) {
	fmt.Fprintf(c.errOut, "\033[36m"+format+"\033[0m\n", args...)
}

// Warning 打印一条黄色的警告信息
func (c *Context) Warning(format string, args ...any) {
	fmt.Fprintf(c.errOut, "\033[33m"+format+"\033[0m\n", args...)
}

// Error 打印一条红色的错误信息
func (c *Context) Error(format string, args ...any) {
	fmt.Fprintf(c.errOut, "\033[31m"+format+"\033[0m\n", args...)
}

// Fail 返回一个 TaskError,调用方应把它往上抛
func (c *Context) Fail(format string, args ...any) error {
	return &TaskError{
		Message:  fmt.Sprintf(format, args...),
		ExitCode: 1,
	}
}
