package sshconf

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Target 一个别名解析出的完整连接参数
type Target struct {
	// Name 用户请求的别名
	Name string
	// Hostname 实际连接的主机名或 IP
	Hostname string
	Port     int
	User     string
	// IdentityFiles 按声明顺序排列,路径已展开
	IdentityFiles []string
	// ProxyJump 跳板机别名,可能是逗号分隔的多级跳板
	ProxyJump    string
	ProxyCommand string
	// StrictHostKeyChecking yes / no / ask / accept-new,默认 ask
	StrictHostKeyChecking string
	ConnectTimeout        time.Duration
	Compression           bool
	// Options 未识别的关键字,原样保留
	Options map[string]string
}

// Addr 返回 host:port 形式的连接地址
func (t *Target) Addr() string {
	return net.JoinHostPort(t.Hostname, strconv.Itoa(t.Port))
}

// Resolve 把别名解析成完整的连接参数
// 遵循 ssh_config(5) 的规则:按文件顺序匹配 Host 块,同一参数先到先得
// 别名没有任何字面匹配的 Host 块、且通配块也没有为它给出 Hostname 时,
// 返回 ErrNotFound
func (c *Config) Resolve(name string) (*Target, error) {
	t := &Target{
		Name:    name,
		Options: make(map[string]string),
	}
	defined := false
	compressionSet := false

	for _, b := range c.blocks {
		if !matchPatterns(b.patterns, name) {
			continue
		}
		if !b.global && hasLiteralMatch(b.patterns, name) {
			defined = true
		}
		for _, e := range b.entries {
			hostnameWasEmpty := t.Hostname == ""
			c.applyEntry(t, e, &compressionSet)
			// 通配块给出了 Hostname 也算定义了这个别名
			if hostnameWasEmpty && t.Hostname != "" {
				defined = true
			}
		}
	}

	if !defined {
		return nil, fmt.Errorf("resolve %q: %w", name, ErrNotFound)
	}

	c.applyDefaults(t)
	return t, nil
}

func hasLiteralMatch(patterns []string, name string) bool {
	for _, p := range patterns {
		if !isWildcard(p) && !strings.HasPrefix(p, "!") && p == name {
			return true
		}
	}
	return false
}

func (c *Config) applyEntry(t *Target, e entry, compressionSet *bool) {
	switch e.key {
	case "hostname":
		if t.Hostname == "" {
			t.Hostname = e.value
		}
	case "port":
		if t.Port == 0 {
			t.Port, _ = strconv.Atoi(e.value)
		}
	case "user":
		if t.User == "" {
			t.User = e.value
		}
	case "identityfile":
		t.IdentityFiles = append(t.IdentityFiles, c.expandIdentityPath(e.value))
	case "proxyjump":
		if t.ProxyJump == "" {
			t.ProxyJump = e.value
		}
	case "proxycommand":
		if t.ProxyCommand == "" {
			t.ProxyCommand = e.value
		}
	case "stricthostkeychecking":
		if t.StrictHostKeyChecking == "" {
			t.StrictHostKeyChecking = strings.ToLower(e.value)
		}
	case "connecttimeout":
		if t.ConnectTimeout == 0 {
			secs, _ := strconv.Atoi(e.value)
			t.ConnectTimeout = time.Duration(secs) * time.Second
		}
	case "compression":
		if !*compressionSet {
			t.Compression = e.value == "yes"
			*compressionSet = true
		}
	default:
		if _, ok := t.Options[e.key]; !ok {
			t.Options[e.key] = e.value
		}
	}
}

func (c *Config) applyDefaults(t *Target) {
	if t.Hostname == "" {
		t.Hostname = t.Name
	}
	// Hostname 里的 %h 展开为请求的别名
	t.Hostname = strings.ReplaceAll(t.Hostname, "%h", t.Name)
	if t.Port == 0 {
		t.Port = 22
	}
	if t.User == "" {
		t.User = currentUser()
	}
	if t.StrictHostKeyChecking == "" {
		t.StrictHostKeyChecking = "ask"
	}
	if t.ProxyCommand != "" {
		t.ProxyCommand = expandTokens(t.ProxyCommand, t)
	}
}

// expandTokens 展开 ProxyCommand 里的 %h / %p / %r
func expandTokens(s string, t *Target) string {
	s = strings.ReplaceAll(s, "%h", t.Hostname)
	s = strings.ReplaceAll(s, "%p", strconv.Itoa(t.Port))
	s = strings.ReplaceAll(s, "%r", t.User)
	return s
}

// expandIdentityPath 展开 IdentityFile 路径
// '~' 展开为 home 目录,相对路径以配置文件所在目录为基准
func (c *Config) expandIdentityPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
		return path
	}
	if !filepath.IsAbs(path) && c.path != "" {
		return filepath.Join(filepath.Dir(c.path), path)
	}
	return path
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
