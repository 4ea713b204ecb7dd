package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"example.com/KitTools/pkg/logger"
	"example.com/KitTools/pkg/sshconf"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Client 包装了一条已建立的 SSH 连接和它对应的解析结果
type Client struct {
	sshClient *ssh.Client
	target    *sshconf.Target
}

func newClient(raw *ssh.Client, target *sshconf.Target) *Client {
	return &Client{
		sshClient: raw,
		target:    target,
	}
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.sshClient.Close()
}

// SSHClient 暴露底层的 ssh.Client (供隧道等高级操作使用)
func (c *Client) SSHClient() *ssh.Client {
	return c.sshClient
}

// Target 返回当前连接对应的解析结果
func (c *Client) Target() *sshconf.Target {
	return c.target
}

// Sftp 在当前连接上打开一个 SFTP 会话
func (c *Client) Sftp() (*sftp.Client, error) {
	return sftp.NewClient(c.sshClient)
}

// RunOptions 远程命令的执行选项
type RunOptions struct {
	Env    map[string]string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run 在远程主机上执行命令并等待结束,返回退出码
// 命令以非零退出码结束不算错误,只有传输层失败才返回 error
// ctx 取消时会向远程进程发送 KILL 信号
func (c *Client) Run(ctx context.Context, cmd string, opts *RunOptions) (int, error) {
	session, err := c.sshClient.NewSession()
	if err != nil {
		return -1, fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	if opts == nil {
		opts = &RunOptions{}
	}
	for k, v := range opts.Env {
		// 服务端 AcceptEnv 不放行的变量会被拒绝,按 debug 记录后继续
		if err := session.Setenv(k, v); err != nil {
			logger.Logger.Debug("setenv rejected", "key", k, "error", err)
		}
	}
	session.Stdin = opts.Stdin
	session.Stdout = opts.Stdout
	session.Stderr = opts.Stderr
	if session.Stdout == nil {
		session.Stdout = io.Discard
	}
	if session.Stderr == nil {
		session.Stderr = io.Discard
	}

	if err := session.Start(cmd); err != nil {
		return -1, fmt.Errorf("start command: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()

	select {
	case err := <-done:
		if err == nil {
			return 0, nil
		}
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitStatus(), nil
		}
		return -1, fmt.Errorf("wait command: %w", err)
	case <-ctx.Done():
		if killErr := session.Signal(ssh.SIGKILL); killErr != nil {
			logger.Logger.Debug("kill remote command", "error", killErr)
		}
		return -1, ctx.Err()
	}
}

// Output 执行命令并返回合并后的输出,适合简单的探测类命令
func (c *Client) Output(ctx context.Context, cmd string) (string, error) {
	var buf bytes.Buffer
	code, err := c.Run(ctx, cmd, &RunOptions{Stdout: &buf, Stderr: &buf})
	if err != nil {
		return buf.String(), err
	}
	if code != 0 {
		return buf.String(), fmt.Errorf("command %q exited with code %d", cmd, code)
	}
	return buf.String(), nil
}
