package sshconf

import (
	"fmt"
	"strings"
)

// Marshal 把配置序列化回 ssh_config 格式
// Host 块和块内键值对保持声明顺序,关键字保留原始写法,
// 所以 Parse(Marshal(cfg)) 和原配置解析出一样的结果
func (c *Config) Marshal() []byte {
	var sb strings.Builder
	for i, b := range c.blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		if !b.global {
			fmt.Fprintf(&sb, "Host %s\n", strings.Join(b.patterns, " "))
		}
		for _, e := range b.entries {
			indent := "    "
			if b.global {
				indent = ""
			}
			value := e.value
			if strings.ContainsAny(value, " \t") && e.key != "proxycommand" {
				value = `"` + value + `"`
			}
			fmt.Fprintf(&sb, "%s%s %s\n", indent, e.raw, value)
		}
	}
	return []byte(sb.String())
}
