package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"example.com/KitTools/pkg/logger"
)

// Local 本地执行器
type Local struct {
	basedir string
}

// NewLocal 创建本地执行器,basedir 是命令的默认工作目录
func NewLocal(basedir string) *Local {
	return &Local{basedir: basedir}
}

func (e *Local) Run(ctx context.Context, cmd string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	// 使用 bash -c 执行以支持管道、重定向等 shell 语法
	c := exec.CommandContext(ctx, "bash", "-c", cmd)
	c.Dir = opts.Cwd
	if c.Dir == "" {
		c.Dir = e.basedir
	}
	if len(opts.Env) > 0 {
		c.Env = os.Environ()
		for k, v := range opts.Env {
			c.Env = append(c.Env, k+"="+v)
		}
	}
	if opts.Input != "" {
		c.Stdin = strings.NewReader(opts.Input)
	}

	var stdout, stderr bytes.Buffer
	if opts.Pipe {
		c.Stdout = &stdout
		c.Stderr = &stderr
	} else {
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
	}

	res := &Result{Cmd: cmd}
	err := c.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, fmt.Errorf("run command: %w", err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	if opts.Check && res.ExitCode != 0 {
		return res, &ExitError{Result: res}
	}
	return res, nil
}

// Copy 本地模式下是空操作,和远程模式保持同一套任务代码
func (e *Local) Copy(ctx context.Context, src, dst string) error {
	logger.Logger.Debug("local executor: copy is a no-op", "src", src, "dst", dst)
	return nil
}

func (e *Local) MkdTemp(ctx context.Context) (string, error) {
	return os.MkdirTemp("", "")
}

func (e *Local) PathExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (e *Local) IsLocal() bool {
	return true
}

func (e *Local) Close() error {
	return nil
}
