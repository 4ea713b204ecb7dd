package version

import "fmt"

// 编译时通过 ldflags 注入,直接 go run 时显示开发默认值
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// PrintFullVersion 打印详细版本信息
func PrintFullVersion() {
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Git Commit: %s\n", Commit)
	fmt.Printf("Build Time: %s\n", BuildTime)
}
