package task

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"example.com/KitTools/pkg/kit"
)

// ErrDuplicateName 同一层级出现了重名的任务或任务组
var ErrDuplicateName = errors.New("duplicate task name")

// RunFunc 任务体
// ctx 用于取消,kctx 携带 stage / 执行器 / 配置
type RunFunc func(ctx context.Context, kctx *kit.Context, args []string) error

// Filter 任务过滤器,返回 false 时任务在当前上下文下不可用
type Filter func(kctx *kit.Context) bool

// Task 一个可执行的任务,对应命令树上的叶子节点
type Task struct {
	// Name 命令名,同一层级内不能重复
	Name string
	// Short 一行简介,出现在父命令的帮助列表里
	Short string
	// Long 详细说明,出现在任务自己的帮助页里
	Long string
	// Args 位置参数校验,nil 时不限制
	Args cobra.PositionalArgs
	// Flags 注册任务自己的 flag,Run 通过闭包拿到绑定的变量
	Flags func(fs *pflag.FlagSet)
	// Filters 全部通过时任务才可执行
	Filters []Filter
	// Hidden 不在帮助列表里展示
	Hidden bool
	// Run 任务体
	Run RunFunc
}
