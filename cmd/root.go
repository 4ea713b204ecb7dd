/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"example.com/KitTools/pkg/config"
	"example.com/KitTools/pkg/dispatcher"
	"example.com/KitTools/pkg/executor"
	"example.com/KitTools/pkg/kit"
	"example.com/KitTools/pkg/logger"
	"example.com/KitTools/pkg/ssh"
	"example.com/KitTools/pkg/sshconf"
	"example.com/KitTools/pkg/task"
)

// App 持有顶层 flag 和按需初始化的执行上下文
// 配置在第一个需要它的命令执行时才加载,帮助和补全不触碰配置文件
type App struct {
	cfgPath   string
	stageName string
	debug     bool
	yes       bool

	once sync.Once
	kctx *kit.Context
	err  error

	disp       *dispatcher.Dispatcher
	connectors map[string]*ssh.Connector
	tree       *task.Tree
}

func NewApp() *App {
	return &App{
		disp:       dispatcher.New(),
		connectors: make(map[string]*ssh.Connector),
	}
}

// Context 懒加载执行上下文,重复调用返回同一个实例
func (a *App) Context() (*kit.Context, error) {
	a.once.Do(func() {
		a.kctx, a.err = a.build()
	})
	return a.kctx, a.err
}

func (a *App) build() (*kit.Context, error) {
	cfgPath := a.cfgPath
	if cfgPath == "" {
		cfgPath = "kittools.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	var stage *config.Stage
	if a.stageName != "" {
		found, ok := cfg.GetStage(a.stageName)
		if !ok {
			return nil, fmt.Errorf("stage %q not found, declared stages: %v", a.stageName, cfg.StageNames())
		}
		stage = found
	} else {
		stage, err = cfg.DefaultStage()
		if err != nil {
			return nil, err
		}
	}

	dispatcher.SetUpFileTransferListeners(a.disp, os.Stderr)
	kctx, err := kit.New(cfg, stage, a.disp, a.executorFor)
	if err != nil {
		return nil, err
	}
	kctx.SetYes(a.yes)
	return kctx, nil
}

// executorFor 按 stage 类型创建执行器
// 同一份 ssh_config 的连接器是共享的,跳板和连接缓存都在里面
func (a *App) executorFor(stage *config.Stage, host string) (executor.Executor, error) {
	if stage == nil || !stage.IsRemote() {
		basedir := ""
		if stage != nil {
			basedir = stage.Basedir
		}
		return executor.NewLocal(basedir), nil
	}
	connector, err := a.connector(stage.SSHConfig)
	if err != nil {
		return nil, err
	}
	return executor.NewRemote(host, stage.Basedir, connector, a.disp), nil
}

func (a *App) connector(configPath string) (*ssh.Connector, error) {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(home, ".ssh", "config")
	}
	if connector, ok := a.connectors[configPath]; ok {
		return connector, nil
	}
	sshCfg, err := sshconf.ParseFile(configPath)
	if err != nil {
		return nil, err
	}
	connector := ssh.NewConnector(sshCfg)
	connector.SetPrompter(ssh.NewTerminalPrompter())
	a.connectors[configPath] = connector
	return connector, nil
}

// Close 断开所有缓存的 SSH 连接
func (a *App) Close() {
	for _, connector := range a.connectors {
		connector.CloseAll()
	}
}

var app = NewApp()

var rootCmd = &cobra.Command{
	Use:   "kittools",
	Short: "kittools 是一个任务编排命令行工具,在本地或远程环境上运行部署任务",
	Long: `kittools 是一个任务编排命令行工具,
把日常的部署和运维操作组织成嵌套的任务树,
并通过 stage 的概念在本地环境和远程主机之间切换执行目标。
远程执行基于 OpenSSH 客户端配置文件,支持跳板机和多级代理。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if app.debug {
			// 开启调试模式
			logger.SetLogLevel("debug")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer app.Close()

	// Ctrl-C 取消所有还在执行的远程命令
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if taskErr, ok := kit.AsTaskError(err); ok {
			fmt.Fprintf(os.Stderr, "\033[31m%s\033[0m\n", taskErr.Message)
			os.Exit(taskErr.ExitCode)
		}
		fmt.Fprintf(os.Stderr, "\033[31m错误: %v\033[0m\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&app.cfgPath, "config", "c", "", "配置文件路径 (默认 ./kittools.yaml)")
	rootCmd.PersistentFlags().StringVarP(&app.stageName, "stage", "s", "", "目标 stage,不指定时使用默认 stage")
	rootCmd.PersistentFlags().BoolVar(&app.debug, "debug", false, "开启调试模式")
	rootCmd.PersistentFlags().BoolVarP(&app.yes, "yes", "y", false, "跳过所有确认提示")

	tree, err := task.Build(builtinTasks(), app.Context)
	if err != nil {
		panic(err)
	}
	app.tree = tree
	for _, cmd := range tree.Commands() {
		rootCmd.AddCommand(cmd)
	}
}
