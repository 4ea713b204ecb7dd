package ssh

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"example.com/KitTools/pkg/sshconf"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// hostKeyCallback 根据 StrictHostKeyChecking 的取值决定主机密钥策略
//   - no:         跳过校验
//   - yes:        只接受 known_hosts 里已有的密钥
//   - accept-new: 未知主机自动追加,密钥变化则拒绝
//   - ask:        未知主机通过终端确认后追加,密钥变化则拒绝
func hostKeyCallback(t *sshconf.Target, prompter Prompter) (ssh.HostKeyCallback, error) {
	if t.StrictHostKeyChecking == "no" {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	path, err := knownHostsPath()
	if err != nil {
		return nil, err
	}

	check, err := knownhosts.New(path)
	if err != nil {
		if t.StrictHostKeyChecking == "yes" {
			return nil, fmt.Errorf("load known_hosts: %w", err)
		}
		// ask / accept-new 模式下 known_hosts 可以不存在
		check = func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			return &knownhosts.KeyError{}
		}
	}

	strict := t.StrictHostKeyChecking
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := check(hostname, remote, key)
		if err == nil {
			return nil
		}

		var keyErr *knownhosts.KeyError
		if !errors.As(err, &keyErr) || len(keyErr.Want) > 0 || strict == "yes" {
			// 密钥和记录不一致,或 yes 模式下主机未知,直接拒绝
			return err
		}

		if strict == "ask" {
			msg := fmt.Sprintf("WARNING: Host key for %s not found (%s). Do you want to add it to %s?",
				hostname, ssh.FingerprintSHA256(key), path)
			if !prompter.Confirm(msg) {
				return fmt.Errorf("unknown host key for %s", hostname)
			}
		}
		return appendKnownHost(path, hostname, key)
	}, nil
}

func knownHostsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ssh", "known_hosts"), nil
}

func appendKnownHost(path, hostname string, key ssh.PublicKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	line := knownhosts.Line([]string{hostname}, key)
	_, err = fmt.Fprintln(f, line)
	return err
}
