package sshconf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Chain 把别名解析成一条有序的跳板链
// 返回的切片按连接顺序排列:先连第一跳,最后一个元素是目标本身
// 跳板可以来自 ProxyJump,也可以来自 "ssh ... <alias>" 形式的 ProxyCommand
// (前提是引用的别名定义在同一份配置里)
func (c *Config) Chain(name string) ([]*Target, error) {
	hops, err := c.chain(name, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	return dedupeHops(hops), nil
}

// path 只记录当前递归路径上的别名,不是全局访问集合:
// 两条并列的 ProxyJump 分支共用同一个跳板(菱形拓扑)是合法配置,
// 只有别名在自己的展开路径上再次出现才算环
func (c *Config) chain(name string, path map[string]bool) ([]*Target, error) {
	if path[name] {
		return nil, fmt.Errorf("proxy chain cycle detected via %q", name)
	}
	path[name] = true
	defer delete(path, name)

	t, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}

	proxy := t.ProxyJump
	if proxy == "" && t.ProxyCommand != "" {
		// ProxyCommand 引用同一份配置里的别名时也展开成跳板链
		if alias := proxyCommandAlias(t.ProxyCommand); alias != "" {
			if _, err := c.Resolve(alias); err == nil {
				proxy = alias
			}
		}
	}
	if proxy == "" {
		return []*Target{t}, nil
	}

	var hops []*Target
	// ProxyJump 支持 "a,b" 形式的多级跳板,按声明顺序依次连接
	for _, jump := range strings.Split(proxy, ",") {
		jump = strings.TrimSpace(jump)
		if jump == "" {
			continue
		}
		sub, err := c.chain(jump, path)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// 不在配置里的跳板按 [user@]host[:port] 字面量处理
				hop, perr := parseJumpSpec(jump)
				if perr != nil {
					return nil, perr
				}
				hops = append(hops, hop)
				continue
			}
			return nil, err
		}
		hops = append(hops, sub...)
	}
	return append(hops, t), nil
}

// dedupeHops 去掉重复出现的跳板,保留首次出现的位置
// 菱形拓扑里同一个跳板会被多条分支展开多次,连接时只需要连一次
func dedupeHops(hops []*Target) []*Target {
	seen := make(map[string]bool, len(hops))
	out := make([]*Target, 0, len(hops))
	for _, h := range hops {
		if seen[h.Name] {
			continue
		}
		seen[h.Name] = true
		out = append(out, h)
	}
	return out
}

// proxyCommandAlias 从 "ssh -W %h:%p jumphost" 这类 ProxyCommand
// 里提取出被引用的别名,提取不出来时返回空串
func proxyCommandAlias(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) < 2 || fields[0] != "ssh" {
		return ""
	}
	// 这些选项带一个参数,跳过选项的同时跳过它的参数
	argOpts := map[string]bool{
		"-W": true, "-o": true, "-i": true, "-F": true,
		"-p": true, "-l": true, "-J": true,
	}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "-") {
			if argOpts[f] {
				i++
			}
			continue
		}
		if strings.ContainsAny(f, ":%") {
			continue
		}
		return f
	}
	return ""
}

// parseJumpSpec 解析 [user@]host[:port] 形式的跳板描述
func parseJumpSpec(spec string) (*Target, error) {
	t := &Target{
		Name:                  spec,
		Port:                  22,
		StrictHostKeyChecking: "ask",
		Options:               make(map[string]string),
	}
	host := spec
	if user, rest, ok := strings.Cut(host, "@"); ok {
		t.User = user
		host = rest
	}
	if h, p, ok := strings.Cut(host, ":"); ok {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid jump host spec %q: bad port %q", spec, p)
		}
		host = h
		t.Port = port
	}
	if host == "" {
		return nil, fmt.Errorf("invalid jump host spec %q", spec)
	}
	t.Hostname = host
	if t.User == "" {
		t.User = currentUser()
	}
	return t, nil
}
