package ssh

import (
	"context"
	"fmt"
	"net"
	"time"

	"example.com/KitTools/pkg/logger"
	"example.com/KitTools/pkg/sshconf"
	"example.com/KitTools/pkg/utils/concurrent"
	"golang.org/x/crypto/ssh"
	"golang.org/x/sync/singleflight"
)

const (
	defaultDialTimeout = 10 * time.Second
	keepAliveInterval  = 30 * time.Second
)

// Connector 负责按别名建立 SSH 连接
// 跳板链由 sshconf 解析,逐跳建立隧道;每一跳的连接都会被缓存复用
type Connector struct {
	cfg      *sshconf.Config
	prompter Prompter
	// 连接池: 别名 -> *ssh.Client
	clients *concurrent.Map[string, *ssh.Client]
	// singleflight 组,按跳板别名合并并发的建连请求
	// 连不同目标但共用同一个跳板时,跳板连接也只建一次
	sf singleflight.Group
	// 测试里替换成桩实现
	dialFn func(ctx context.Context, dialer Dialer, hop *sshconf.Target) (*ssh.Client, error)
}

// NewConnector 创建一个新的 Connector
func NewConnector(cfg *sshconf.Config) *Connector {
	c := &Connector{
		cfg:      cfg,
		prompter: terminalPrompter{},
		clients:  concurrent.NewMap[string, *ssh.Client](concurrent.HashString),
	}
	c.dialFn = c.dial
	return c
}

// SetPrompter 替换终端交互实现 (测试用)
func (c *Connector) SetPrompter(p Prompter) {
	c.prompter = p
}

// Connect 根据别名建立 SSH 连接
// 别名配置了跳板时会先逐跳连接跳板,目标流量经由跳板隧道转发
// 即使多个协程同时请求同一个别名,底层连接也只会建立一次
func (c *Connector) Connect(ctx context.Context, alias string) (*Client, error) {
	chain, err := c.cfg.Chain(alias)
	if err != nil {
		return nil, err
	}

	var dialer Dialer = &net.Dialer{Timeout: defaultDialTimeout}
	var raw *ssh.Client

	for _, hop := range chain {
		raw, err = c.connectHop(ctx, dialer, hop)
		if err != nil {
			return nil, err
		}
		// 下一跳经由当前连接的隧道转发
		dialer = &tunnelDialer{client: raw}
	}

	return newClient(raw, chain[len(chain)-1]), nil
}

// connectHop 建立(或复用)单跳连接
// singleflight 以跳板别名为 key,保证同一跳板并发请求时只建连一次,
// 不会出现后建的连接覆盖掉缓存里先建连接的情况
func (c *Connector) connectHop(ctx context.Context, dialer Dialer, hop *sshconf.Target) (*ssh.Client, error) {
	result, err, _ := c.sf.Do(hop.Name, func() (any, error) {
		if cached, ok := c.clients.Get(hop.Name); ok {
			return cached, nil
		}
		raw, err := c.dialFn(ctx, dialer, hop)
		if err != nil {
			return nil, fmt.Errorf("connect to %q: %w", hop.Name, err)
		}
		name := hop.Name
		c.clients.Set(name, raw)
		StartKeepAlive(raw, keepAliveInterval, func(err error) {
			logger.Logger.Debug("keepalive failed, dropping cached client",
				"alias", name, "error", err)
			c.clients.Remove(name)
		})
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*ssh.Client), nil
}

// dial 建立单跳连接:先通过 dialer 建 TCP 连接,再做 SSH 握手
func (c *Connector) dial(ctx context.Context, dialer Dialer, hop *sshconf.Target) (*ssh.Client, error) {
	sshConfig, err := buildClientConfig(hop, c.prompter)
	if err != nil {
		return nil, err
	}

	addr := hop.Addr()
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	ncc, chans, reqs, err := ssh.NewClientConn(conn, addr, sshConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	return ssh.NewClient(ncc, chans, reqs), nil
}

// CloseAll 关闭所有缓存的连接 (在程序退出前调用)
func (c *Connector) CloseAll() {
	c.clients.IterCb(func(name string, client *ssh.Client) bool {
		client.Close()
		return true
	})
	c.clients.Clear()
}
