package ssh

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"example.com/KitTools/pkg/logger"
	"example.com/KitTools/pkg/sshconf"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

const defaultHandshakeTimeout = 15 * time.Second

// buildClientConfig 根据解析出的 Target 构建 ssh.ClientConfig
// 认证顺序: IdentityFile 私钥 -> SSH agent -> 交互式密码
func buildClientConfig(t *sshconf.Target, prompter Prompter) (*ssh.ClientConfig, error) {
	var methods []ssh.AuthMethod

	signers, err := loadIdentitySigners(t, prompter)
	if err != nil {
		return nil, err
	}
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		conn, err := net.Dial("unix", sock)
		if err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		} else {
			logger.Logger.Debug("ssh agent unavailable", "error", err)
		}
	}

	// 密码放在最后,前面的方式都失败时才会提示输入
	methods = append(methods, ssh.PasswordCallback(func() (string, error) {
		return prompter.Password(fmt.Sprintf("%s@%s's password: ", t.User, t.Hostname))
	}))

	hostKeyCallback, err := hostKeyCallback(t, prompter)
	if err != nil {
		return nil, err
	}

	timeout := t.ConnectTimeout
	if timeout == 0 {
		timeout = defaultHandshakeTimeout
	}

	return &ssh.ClientConfig{
		User:            t.User,
		Auth:            methods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}, nil
}

// loadIdentitySigners 读取并解析 Target 声明的私钥文件
// 带密码的私钥通过 prompter 询问 passphrase
func loadIdentitySigners(t *sshconf.Target, prompter Prompter) ([]ssh.Signer, error) {
	var signers []ssh.Signer
	for _, path := range t.IdentityFiles {
		// ssh 同款行为: 权限过宽的私钥直接忽略
		if err := sshconf.CheckStrictPerms(path); err != nil {
			logger.Logger.Debug("skip identity file", "path", path, "error", err)
			continue
		}
		keyBytes, err := os.ReadFile(path)
		if err != nil {
			// ssh 对不存在的 IdentityFile 也只是跳过
			logger.Logger.Debug("skip identity file", "path", path, "error", err)
			continue
		}

		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			var passErr *ssh.PassphraseMissingError
			if !errors.As(err, &passErr) {
				return nil, fmt.Errorf("parse private key %s: %w", path, err)
			}
			pass, perr := prompter.Password(fmt.Sprintf("Enter passphrase for %s: ", path))
			if perr != nil {
				return nil, perr
			}
			signer, err = ssh.ParsePrivateKeyWithPassphrase(keyBytes, []byte(pass))
			if err != nil {
				return nil, fmt.Errorf("parse private key %s: %w", path, err)
			}
		}
		signers = append(signers, signer)
	}
	return signers, nil
}
