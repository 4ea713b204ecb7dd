package ssh

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter 抽象出需要终端交互的地方 (密码、未知主机密钥确认)
// 测试时可以替换成非交互实现
type Prompter interface {
	Confirm(msg string) bool
	Password(msg string) (string, error)
}

// NewTerminalPrompter 返回默认的终端交互实现
func NewTerminalPrompter() Prompter {
	return terminalPrompter{}
}

// terminalPrompter 默认的终端交互实现
type terminalPrompter struct{}

func (terminalPrompter) Confirm(msg string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", msg)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

func (terminalPrompter) Password(msg string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("cannot prompt for password: stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, msg)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pass), nil
}
