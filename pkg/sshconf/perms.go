package sshconf

import (
	"fmt"
	"os"
)

// CheckStrictPerms 检查私钥或 authorized_keys 这类敏感文件的权限
// 组和其他用户有任何权限位时返回错误 (ssh 本身也会拒绝这类文件)
func CheckStrictPerms(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		return fmt.Errorf("%s has permissions %04o, want 0600", path, perm)
	}
	return nil
}

// EnsureStrictPerms 把敏感文件的权限收紧到 0600
func EnsureStrictPerms(path string) error {
	if err := CheckStrictPerms(path); err == nil {
		return nil
	}
	return os.Chmod(path, 0o600)
}
