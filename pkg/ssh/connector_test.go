package ssh

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"example.com/KitTools/pkg/sshconf"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/sync/errgroup"
)

func newTestConnector(t *testing.T) *Connector {
	t.Helper()
	input := strings.Join([]string{
		"Host bastion",
		"    Hostname bastion.example.com",
		"Host web-1",
		"    Hostname 10.0.0.1",
		"    ProxyJump bastion",
		"Host web-2",
		"    Hostname 10.0.0.2",
		"    ProxyJump bastion",
	}, "\n")
	cfg, err := sshconf.Parse(strings.NewReader(input), "")
	require.NoError(t, err)
	return NewConnector(cfg)
}

// 两个不同的目标共用同一个跳板时,并发建连也只拨号跳板一次,
// 缓存里的跳板连接不会被后来的连接覆盖掉
func TestConnectSharedJumpHostDialedOnce(t *testing.T) {
	c := newTestConnector(t)

	var mu sync.Mutex
	dials := make(map[string]int)
	c.dialFn = func(ctx context.Context, dialer Dialer, hop *sshconf.Target) (*ssh.Client, error) {
		mu.Lock()
		dials[hop.Name]++
		mu.Unlock()
		// 拉长建连窗口,让两个目标的跳板请求真正并发到达
		time.Sleep(20 * time.Millisecond)
		return &ssh.Client{}, nil
	}

	var g errgroup.Group
	g.Go(func() error {
		_, err := c.Connect(context.Background(), "web-1")
		return err
	})
	g.Go(func() error {
		_, err := c.Connect(context.Background(), "web-2")
		return err
	})
	require.NoError(t, g.Wait())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, dials["bastion"])
	require.Equal(t, 1, dials["web-1"])
	require.Equal(t, 1, dials["web-2"])
}

func TestConnectReusesCachedClient(t *testing.T) {
	c := newTestConnector(t)

	var mu sync.Mutex
	clients := make(map[string]*ssh.Client)
	c.dialFn = func(ctx context.Context, dialer Dialer, hop *sshconf.Target) (*ssh.Client, error) {
		raw := &ssh.Client{}
		mu.Lock()
		clients[hop.Name] = raw
		mu.Unlock()
		return raw, nil
	}

	_, err := c.Connect(context.Background(), "web-1")
	require.NoError(t, err)

	cached, ok := c.clients.Get("bastion")
	require.True(t, ok)
	require.Same(t, clients["bastion"], cached)

	// 第二次连接走缓存,不再拨号
	c.dialFn = func(ctx context.Context, dialer Dialer, hop *sshconf.Target) (*ssh.Client, error) {
		t.Fatal("unexpected dial")
		return nil, nil
	}
	_, err = c.Connect(context.Background(), "web-1")
	require.NoError(t, err)
}
