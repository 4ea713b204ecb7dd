package executor

import (
	"context"
	"errors"
	"fmt"
)

// Options 命令执行选项
type Options struct {
	// Env 额外的环境变量
	Env map[string]string
	// Cwd 命令的工作目录,为空时用 executor 的 basedir
	Cwd string
	// Input 写入命令标准输入的内容
	Input string
	// Pipe true 时捕获输出到 Result,false 时直接输出到进程的 stdout/stderr
	Pipe bool
	// Check true 时非零退出码返回 *ExitError
	Check bool
}

// Result 命令执行结果
type Result struct {
	Cmd      string
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExitError Check 模式下非零退出码对应的错误
type ExitError struct {
	Result *Result
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", e.Result.Cmd, e.Result.ExitCode)
}

// AsExitError 从错误链中提取 ExitError
func AsExitError(err error) (*ExitError, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr, true
	}
	return nil, false
}

// Executor 统一本地和远程的命令执行抽象
// 任务代码通过它运行命令,不需要关心目标在哪里
type Executor interface {
	// Run 执行命令并等待结束
	Run(ctx context.Context, cmd string, opts *Options) (*Result, error)
	// Copy 把本地文件复制到目标路径,本地模式下是空操作
	Copy(ctx context.Context, src, dst string) error
	// MkdTemp 在目标上创建一个唯一命名的临时目录,清理由调用方负责
	MkdTemp(ctx context.Context) (string, error)
	// PathExists 检查目标上的路径是否存在
	PathExists(ctx context.Context, path string) (bool, error)
	// IsLocal 是否是本地 executor
	IsLocal() bool
	Close() error
}
