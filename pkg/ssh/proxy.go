package ssh

import (
	"context"
	"net"

	"golang.org/x/crypto/ssh"
)

// tunnelDialer 实现了 Dialer 接口,通过已建立的 SSH 连接转发流量
type tunnelDialer struct {
	client *ssh.Client
}

func (d *tunnelDialer) Dial(network, addr string) (net.Conn, error) {
	return d.client.Dial(network, addr)
}

// DialContext ssh.Client.Dial 本身不支持 Context,
// 这里用一个异步包装来支持取消
func (d *tunnelDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		conn, err := d.client.Dial(network, addr)
		ch <- result{conn: conn, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return res.conn, nil
	}
}
