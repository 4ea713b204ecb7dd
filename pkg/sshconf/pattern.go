package sshconf

import "strings"

// matchPattern 实现 ssh_config(5) 的通配符匹配
// '*' 匹配任意长度的字符序列,'?' 匹配单个字符
func matchPattern(pattern, name string) bool {
	// 经典的双指针回溯算法,避免递归
	var pi, ni int
	star := -1
	backtrack := 0

	for ni < len(name) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == name[ni]):
			pi++
			ni++
		case pi < len(pattern) && pattern[pi] == '*':
			star = pi
			backtrack = ni
			pi++
		case star >= 0:
			pi = star + 1
			backtrack++
			ni = backtrack
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}

// matchPatterns 按 ssh_config(5) 的规则匹配一组 pattern
// 前缀 '!' 表示取反:只要有一个取反的 pattern 命中,整组就不匹配
// 没有任何肯定的 pattern 命中时同样不匹配
func matchPatterns(patterns []string, name string) bool {
	matched := false
	for _, p := range patterns {
		if negated, ok := strings.CutPrefix(p, "!"); ok {
			if matchPattern(negated, name) {
				return false
			}
			continue
		}
		if matchPattern(p, name) {
			matched = true
		}
	}
	return matched
}

// isWildcard pattern 是否包含通配符
func isWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?")
}
