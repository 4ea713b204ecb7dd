package utils

import (
	"fmt"
	"sort"
	"strings"
)

// AppendCmdFlags 把一组 flag 追加到 shell 命令末尾
// 单字符的 key 生成短选项 (-d / -f value),其余生成长选项 (--some=flag)
// bool 值为 true 时只输出选项本身,切片值会重复输出同一个选项
// 为了输出稳定,key 按字典序排列
func AppendCmdFlags(cmd string, flags map[string]any) string {
	keys := make([]string, 0, len(flags))
	for k := range flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(cmd)
	for _, k := range keys {
		switch v := flags[k].(type) {
		case bool:
			if v {
				sb.WriteString(" " + formatFlag(k, "", false))
			}
		case []string:
			for _, item := range v {
				sb.WriteString(" " + formatFlag(k, item, true))
			}
		default:
			sb.WriteString(" " + formatFlag(k, fmt.Sprintf("%v", v), true))
		}
	}
	return sb.String()
}

func formatFlag(key, value string, hasValue bool) string {
	if len(key) == 1 {
		if !hasValue {
			return "-" + key
		}
		return fmt.Sprintf("-%s %s", key, value)
	}
	if !hasValue {
		return "--" + key
	}
	return fmt.Sprintf("--%s=%s", key, value)
}
