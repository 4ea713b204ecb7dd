package task

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"example.com/KitTools/pkg/kit"
)

// ContextProvider 延迟获取执行上下文
// 配置要等 flag 解析完才能加载,所以任务执行时才向上层要 kit.Context
type ContextProvider func() (*kit.Context, error)

// Tree 构建完成的命令树
type Tree struct {
	root  *cobra.Command
	paths []string
}

// Root 返回树根对应的 cobra 命令,挂到顶层命令下即可
func (t *Tree) Root() *cobra.Command {
	return t.root
}

// Commands 返回树根下的顶层命令,由调用方逐个挂载
func (t *Tree) Commands() []*cobra.Command {
	return t.root.Commands()
}

// Paths 返回所有任务的完整调用路径 (空格分隔),按字典序排列
// shell 补全和帮助列表用它
func (t *Tree) Paths() []string {
	return t.paths
}

// scope 从根到当前节点累积下来的运行约束
type scope struct {
	stage   string
	filters []Filter
}

func (s scope) push(stage string, filters []Filter) scope {
	next := scope{stage: s.stage, filters: s.filters}
	if stage != "" {
		next.stage = stage
	}
	if len(filters) > 0 {
		next.filters = append(append([]Filter{}, s.filters...), filters...)
	}
	return next
}

// Build 把任务组编译成 cobra 命令树
// 同一层级重名时返回 ErrDuplicateName
func Build(root *Group, provider ContextProvider) (*Tree, error) {
	rootCmd := &cobra.Command{Use: root.Name}
	tree := &Tree{root: rootCmd}
	if err := buildLevel(tree, rootCmd, root, nil, scope{stage: root.Stage, filters: root.Filters}, provider); err != nil {
		return nil, err
	}
	sort.Strings(tree.paths)
	return tree, nil
}

func buildLevel(tree *Tree, parent *cobra.Command, group *Group, prefix []string, sc scope, provider ContextProvider) error {
	names := make(map[string]struct{})
	claim := func(name string) error {
		if name == "" {
			return fmt.Errorf("task or group without a name under %q", strings.Join(prefix, " "))
		}
		if _, ok := names[name]; ok {
			return fmt.Errorf("%w: %q under %q", ErrDuplicateName, name, strings.Join(prefix, " "))
		}
		names[name] = struct{}{}
		return nil
	}

	for _, t := range group.Tasks() {
		if err := claim(t.Name); err != nil {
			return err
		}
		cmd := buildTaskCommand(t, sc, provider)
		parent.AddCommand(cmd)
		tree.paths = append(tree.paths, strings.Join(append(prefix, t.Name), " "))
	}
	for _, sub := range group.Groups() {
		if err := claim(sub.Name); err != nil {
			return err
		}
		cmd := &cobra.Command{
			Use:   sub.Name,
			Short: sub.Short,
			RunE: func(c *cobra.Command, args []string) error {
				return c.Help()
			},
		}
		parent.AddCommand(cmd)
		subPrefix := append(append([]string{}, prefix...), sub.Name)
		if err := buildLevel(tree, cmd, sub, subPrefix, sc.push(sub.Stage, sub.Filters), provider); err != nil {
			return err
		}
	}
	return nil
}

func buildTaskCommand(t *Task, sc scope, provider ContextProvider) *cobra.Command {
	filters := append(append([]Filter{}, sc.filters...), t.Filters...)
	cmd := &cobra.Command{
		Use:    t.Name,
		Short:  t.Short,
		Long:   t.Long,
		Args:   t.Args,
		Hidden: t.Hidden,
		RunE: func(c *cobra.Command, args []string) error {
			kctx, err := provider()
			if err != nil {
				return err
			}
			if sc.stage != "" {
				kctx, err = kctx.WithStage(sc.stage)
				if err != nil {
					return err
				}
			}
			if !passesFilters(kctx, filters) {
				stageName := "(none)"
				if stage := kctx.Stage(); stage != nil {
					stageName = stage.Name
				}
				return &kit.TaskError{
					Message:  fmt.Sprintf("task %q is not available on stage %q", t.Name, stageName),
					ExitCode: 1,
				}
			}
			return t.Run(c.Context(), kctx, args)
		},
	}
	if t.Flags != nil {
		t.Flags(cmd.Flags())
	}
	return cmd
}
