package ssh

import (
	"time"

	"golang.org/x/crypto/ssh"
)

// StartKeepAlive 开启一个协程,定期向 SSH Server 发送心跳
// 心跳失败时会关闭连接,并调用可选的 fallback 回调
func StartKeepAlive(client *ssh.Client, interval time.Duration, fallback func(err error)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			// "keepalive@openssh.com" 是 OpenSSH 标准的心跳请求类型
			// wantReply = true: 要求服务器回复,连接断开时 SendRequest 会报错
			_, _, err := client.SendRequest("keepalive@openssh.com", true, nil)
			if err != nil {
				// 显式关闭 Client,正在使用的 Session 也会收到错误通知
				client.Close()
				if fallback != nil {
					fallback(err)
				}
				return
			}
		}
	}()
}
