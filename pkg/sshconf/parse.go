package sshconf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config 一份解析后的 OpenSSH 客户端配置
// 保留 Host 块的声明顺序,解析时遵循 "先到先得" 的取值规则
type Config struct {
	path   string
	blocks []*hostBlock
}

// hostBlock 一个 Host 块,或出现在第一个 Host 之前的全局配置段
type hostBlock struct {
	patterns []string // 全局段为 ["*"]
	global   bool
	line     int
	entries  []entry
}

// entry 块内的一行键值对,raw 保留原始关键字写法用于序列化
type entry struct {
	key   string
	raw   string
	value string
	line  int
}

// 这些关键字在解析时就做取值校验,错误能带上行号上下文
var (
	numericKeywords = map[string]bool{
		"port":           true,
		"connecttimeout": true,
	}
	yesNoKeywords = map[string]bool{
		"compression": true,
	}
	strictHostKeyValues = map[string]bool{
		"yes":        true,
		"no":         true,
		"ask":        true,
		"accept-new": true,
	}
)

// ParseFile 解析一个 ssh_config 文件
func ParseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ssh config: %w", err)
	}
	return Parse(bytes.NewReader(data), path)
}

// Parse 从 reader 解析 ssh_config 格式的内容
// path 只用于错误信息和 IdentityFile 相对路径的解析,可以为空
func Parse(r io.Reader, path string) (*Config, error) {
	cfg := &Config{path: path}

	var current *hostBlock
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rawKey, value, err := splitKeyword(line)
		if err != nil {
			return nil, parseErrorf(path, lineNo, "%s", err)
		}
		key := strings.ToLower(rawKey)

		if key == "host" {
			patterns := strings.Fields(value)
			if len(patterns) == 0 {
				return nil, parseErrorf(path, lineNo, "Host keyword requires at least one pattern")
			}
			current = &hostBlock{patterns: patterns, line: lineNo}
			cfg.blocks = append(cfg.blocks, current)
			continue
		}

		if err := validateValue(key, value); err != nil {
			return nil, parseErrorf(path, lineNo, "%s", err)
		}

		if current == nil {
			// 第一个 Host 之前的全局配置段,等价于 Host *
			current = &hostBlock{patterns: []string{"*"}, global: true, line: lineNo}
			cfg.blocks = append(cfg.blocks, current)
		}
		current.entries = append(current.entries, entry{
			key:   key,
			raw:   rawKey,
			value: value,
			line:  lineNo,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ssh config: %w", err)
	}
	return cfg, nil
}

// splitKeyword 把一行拆成关键字和取值
// 关键字和取值之间可以用空白或 '=' 分隔,取值可以用双引号包裹
func splitKeyword(line string) (string, string, error) {
	sep := strings.IndexAny(line, " \t=")
	if sep < 0 {
		return "", "", fmt.Errorf("keyword %q has no argument", line)
	}
	key := line[:sep]
	value := strings.TrimSpace(line[sep+1:])
	value = strings.TrimPrefix(value, "=")
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	if value == "" {
		return "", "", fmt.Errorf("keyword %q has no argument", key)
	}
	return key, value, nil
}

func validateValue(key, value string) error {
	switch {
	case numericKeywords[key]:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("keyword %s expects a number, got %q", key, value)
		}
	case yesNoKeywords[key]:
		if value != "yes" && value != "no" {
			return fmt.Errorf("keyword %s expects yes or no, got %q", key, value)
		}
	case key == "stricthostkeychecking":
		if !strictHostKeyValues[strings.ToLower(value)] {
			return fmt.Errorf("keyword StrictHostKeyChecking expects yes/no/ask/accept-new, got %q", value)
		}
	}
	return nil
}

// Path 返回配置文件路径,来自 Parse 的 reader 时可能为空
func (c *Config) Path() string {
	return c.path
}

// Aliases 返回所有不含通配符的 Host 别名,按声明顺序排列
func (c *Config) Aliases() []string {
	seen := make(map[string]bool)
	aliases := make([]string, 0)
	for _, b := range c.blocks {
		for _, p := range b.patterns {
			if isWildcard(p) || strings.HasPrefix(p, "!") || seen[p] {
				continue
			}
			seen[p] = true
			aliases = append(aliases, p)
		}
	}
	return aliases
}
