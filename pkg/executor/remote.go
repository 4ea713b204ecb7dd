package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"example.com/KitTools/pkg/dispatcher"
	"example.com/KitTools/pkg/ssh"
)

// Remote 远程执行器,通过 SSH 在目标主机执行命令,通过 SFTP 传文件
// 连接在第一次使用时才建立 (Connector 负责缓存和跳板链)
type Remote struct {
	host      string
	basedir   string
	connector *ssh.Connector
	disp      *dispatcher.Dispatcher
}

// NewRemote 创建远程执行器
// host 是 ssh_config 里的别名,basedir 是远程命令的默认工作目录
func NewRemote(host, basedir string, connector *ssh.Connector, disp *dispatcher.Dispatcher) *Remote {
	return &Remote{
		host:      host,
		basedir:   basedir,
		connector: connector,
		disp:      disp,
	}
}

// Host 返回目标主机别名
func (e *Remote) Host() string {
	return e.host
}

func (e *Remote) Run(ctx context.Context, cmd string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	client, err := e.connector.Connect(ctx, e.host)
	if err != nil {
		return nil, err
	}

	cwd := opts.Cwd
	if cwd == "" {
		cwd = e.basedir
	}
	fullCmd := remoteCommand(cwd, cmd)

	runOpts := &ssh.RunOptions{Env: opts.Env}
	if opts.Input != "" {
		runOpts.Stdin = strings.NewReader(opts.Input)
	}
	var stdout, stderr bytes.Buffer
	if opts.Pipe {
		runOpts.Stdout = &stdout
		runOpts.Stderr = &stderr
	} else {
		runOpts.Stdout = os.Stdout
		runOpts.Stderr = os.Stderr
	}

	code, err := client.Run(ctx, fullCmd, runOpts)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Cmd:      cmd,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: code,
	}
	if opts.Check && code != 0 {
		return res, &ExitError{Result: res}
	}
	return res, nil
}

// Copy 通过 SFTP 把本地文件传到远程路径
// 传输过程通过 dispatcher 发出 file_transfer.* 事件,进度展示由监听器处理
func (e *Remote) Copy(ctx context.Context, src, dst string) error {
	client, err := e.connector.Connect(ctx, e.host)
	if err != nil {
		return err
	}
	sftpClient, err := client.Sftp()
	if err != nil {
		return fmt.Errorf("open sftp session: %w", err)
	}
	defer sftpClient.Close()

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat local file: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	if err := sftpClient.MkdirAll(path.Dir(dst)); err != nil {
		return fmt.Errorf("create remote directory: %w", err)
	}
	dstFile, err := sftpClient.Create(dst)
	if err != nil {
		return fmt.Errorf("create remote file: %w", err)
	}
	defer dstFile.Close()

	e.disp.Emit(dispatcher.EventTransferStart, dispatcher.TransferStart{
		Label: fmt.Sprintf("%s -> %s:%s", src, e.host, dst),
		Size:  info.Size(),
	})
	defer e.disp.Emit(dispatcher.EventTransferEnd, nil)

	reader := &progressReader{r: srcFile, disp: e.disp}
	if _, err := io.Copy(dstFile, reader); err != nil {
		return fmt.Errorf("transfer %s: %w", src, err)
	}
	return sftpClient.Chmod(dst, info.Mode().Perm())
}

// remoteCommand 组装带工作目录的远端命令
// 目录路径用单引号包起来,带空格或 $ 等字符时也能正确 cd
func remoteCommand(cwd, cmd string) string {
	if cwd == "" {
		return cmd
	}
	return fmt.Sprintf("cd %s && %s", shellQuote(cwd), cmd)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (e *Remote) MkdTemp(ctx context.Context) (string, error) {
	res, err := e.Run(ctx, "mktemp -d", &Options{Pipe: true, Check: true})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

func (e *Remote) PathExists(ctx context.Context, path string) (bool, error) {
	res, err := e.Run(ctx, fmt.Sprintf("ls %s 1>/dev/null 2>&1", path), &Options{Pipe: true})
	if err != nil {
		return false, err
	}
	return res.ExitCode == 0, nil
}

func (e *Remote) IsLocal() bool {
	return false
}

// Close 连接归 Connector 管理,这里不需要做什么
func (e *Remote) Close() error {
	return nil
}

// progressReader 在读取时向 dispatcher 报告传输进度
type progressReader struct {
	r    io.Reader
	disp *dispatcher.Dispatcher
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.disp.Emit(dispatcher.EventTransferUpdate, dispatcher.TransferUpdate{N: n})
	}
	return n, err
}
