package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"example.com/KitTools/pkg/executor"
	"example.com/KitTools/pkg/git"
	"example.com/KitTools/pkg/kit"
	"example.com/KitTools/pkg/runner"
	"example.com/KitTools/pkg/task"
	"example.com/KitTools/pkg/utils"
)

// builtinTasks 声明内置的任务树
// 用户自定义任务树走同一套 task.Group / task.Build 接口
func builtinTasks() *task.Group {
	root := task.NewGroup("kittools", "")
	root.MustAddTask(newRunTask())
	root.MustAddTask(newCopyTask())
	root.MustAddGroup(newGitGroup())
	return root
}

// newRunTask 在当前 stage 上执行一条命令
// 远程 stage 的多台主机并行执行
func newRunTask() *task.Task {
	var (
		parallel  uint
		failFast  bool
		cwd       string
		extraFlag map[string]string
	)
	return &task.Task{
		Name:  "run",
		Short: "在当前 stage 上执行命令",
		Long: `在当前 stage 上执行一条 shell 命令。
local stage 直接在本机执行,remote stage 通过 SSH 在目标主机执行。
stage 声明了多台主机时默认并行执行,--fail-fast 让任何一台失败就中止其余主机。

用法示例:
kittools run "uptime"
kittools -s prod run --parallel 2 "systemctl restart app"`,
		Args: cobra.ExactArgs(1),
		Flags: func(fs *pflag.FlagSet) {
			fs.UintVarP(&parallel, "parallel", "P", 0, "并行执行的主机数上限,0 为默认值")
			fs.BoolVar(&failFast, "fail-fast", false, "任何一台主机失败就中止其余主机")
			fs.StringVar(&cwd, "cwd", "", "命令的工作目录,覆盖 stage 的 basedir")
			fs.StringToStringVar(&extraFlag, "flag", nil, "追加到命令末尾的 flag,如 --flag all=true")
		},
		Run: func(ctx context.Context, kctx *kit.Context, args []string) error {
			command := args[0]
			if len(extraFlag) > 0 {
				flags := make(map[string]any, len(extraFlag))
				for k, v := range extraFlag {
					if v == "true" {
						flags[k] = true
					} else {
						flags[k] = v
					}
				}
				command = utils.AppendCmdFlags(command, flags)
			}
			opts := &executor.Options{Cwd: cwd, Check: true}

			if kctx.IsLocal() {
				_, err := kctx.Run(ctx, command, opts)
				return wrapExitError(err)
			}

			hosts := kctx.Stage().Hosts()
			fn := func(ctx context.Context, hostCtx *kit.Context, host string) error {
				hostCtx.Info("[%s] %s", host, command)
				_, err := hostCtx.Run(ctx, command, opts)
				return err
			}
			if failFast {
				return wrapExitError(runner.RunFailFast(ctx, kctx, hosts, parallel, fn))
			}
			failed := 0
			for _, res := range runner.RunParallel(ctx, kctx, hosts, parallel, fn) {
				if res.Err != nil {
					kctx.Error("[%s] %v", res.Host, res.Err)
					failed++
				}
			}
			if failed > 0 {
				return kctx.Fail("%d/%d 台主机执行失败", failed, len(hosts))
			}
			return nil
		},
	}
}

// newCopyTask 把本地文件复制到当前 stage
func newCopyTask() *task.Task {
	var parallel uint
	return &task.Task{
		Name:  "copy",
		Short: "把本地文件复制到当前 stage",
		Long: `把本地文件复制到当前 stage 的目标路径。
remote stage 通过 SFTP 传输并展示进度条,多台主机并行传输。

用法示例:
kittools -s prod copy dist/app.tar.gz /srv/app/app.tar.gz`,
		Args:    cobra.ExactArgs(2),
		Filters: []task.Filter{task.RemoteOnly()},
		Flags: func(fs *pflag.FlagSet) {
			fs.UintVarP(&parallel, "parallel", "P", 0, "并行传输的主机数上限,0 为默认值")
		},
		Run: func(ctx context.Context, kctx *kit.Context, args []string) error {
			src, dst := args[0], args[1]
			hosts := kctx.Stage().Hosts()
			if !kctx.Confirm("将 %s 复制到 %d 台主机的 %s,已有文件会被覆盖,继续?", src, len(hosts), dst) {
				return kctx.Fail("已取消")
			}
			results := runner.RunParallel(ctx, kctx, hosts, parallel, func(ctx context.Context, hostCtx *kit.Context, host string) error {
				return hostCtx.Copy(ctx, src, dst)
			})
			if res := runner.FirstError(results); res != nil {
				return kctx.Fail("复制到 %s 失败: %v", res.Host, res.Err)
			}
			return nil
		},
	}
}

// newGitGroup 发布前的 git 检查类任务,只在本机有意义
func newGitGroup() *task.Group {
	group := task.NewGroup("git", "git 相关的发布前检查")
	group.Filters = []task.Filter{task.LocalOnly()}

	var maxAge time.Duration
	group.MustAddTask(&task.Task{
		Name:  "check-tag",
		Short: "校验 git tag 存在且足够新",
		Args:  cobra.ExactArgs(1),
		Flags: func(fs *pflag.FlagSet) {
			fs.DurationVar(&maxAge, "max-age", 0, "tag 距今的最大时长,0 表示只检查存在性")
		},
		Run: func(ctx context.Context, kctx *kit.Context, args []string) error {
			tag := args[0]
			if maxAge > 0 {
				return git.EnsureTagIsRecent(ctx, kctx, tag, maxAge)
			}
			return git.EnsureTagExists(ctx, kctx, tag)
		},
	})

	group.MustAddTask(&task.Task{
		Name:  "branch",
		Short: "显示当前检出的分支",
		Args:  cobra.NoArgs,
		Run: func(ctx context.Context, kctx *kit.Context, args []string) error {
			branch, err := git.CurrentBranch(ctx, kctx)
			if err != nil {
				return err
			}
			fmt.Println(branch)
			return nil
		},
	})
	return group
}

// wrapExitError 把执行器的非零退出码转成对应退出码的任务错误
func wrapExitError(err error) error {
	if err == nil {
		return nil
	}
	if exitErr, ok := executor.AsExitError(err); ok {
		return &kit.TaskError{
			Message:  exitErr.Error(),
			ExitCode: exitErr.Result.ExitCode,
		}
	}
	return err
}
