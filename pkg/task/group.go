package task

import "fmt"

// Group 任务组,对应命令树上的中间节点
// 组可以固定 stage:组下的任务执行时自动切换到该 stage
type Group struct {
	// Name 命令名,同一层级内不能重复
	Name string
	// Short 一行简介
	Short string
	// Stage 非空时,组下所有任务在这个 stage 的上下文里执行
	Stage string
	// Filters 作用于组下全部任务
	Filters []Filter

	tasks  []*Task
	groups []*Group
}

// NewGroup 创建任务组
func NewGroup(name, short string) *Group {
	return &Group{Name: name, Short: short}
}

// AddTask 向组里加一个任务,同层重名时返回 ErrDuplicateName
func (g *Group) AddTask(t *Task) error {
	if g.has(t.Name) {
		return fmt.Errorf("%w: %q already declared in group %q", ErrDuplicateName, t.Name, g.Name)
	}
	g.tasks = append(g.tasks, t)
	return nil
}

// AddGroup 向组里加一个子组,同层重名时返回 ErrDuplicateName
func (g *Group) AddGroup(sub *Group) error {
	if g.has(sub.Name) {
		return fmt.Errorf("%w: %q already declared in group %q", ErrDuplicateName, sub.Name, g.Name)
	}
	g.groups = append(g.groups, sub)
	return nil
}

// MustAddTask AddTask 的 panic 版本,给静态声明任务树的场景用
func (g *Group) MustAddTask(t *Task) {
	if err := g.AddTask(t); err != nil {
		panic(err)
	}
}

// MustAddGroup AddGroup 的 panic 版本
func (g *Group) MustAddGroup(sub *Group) {
	if err := g.AddGroup(sub); err != nil {
		panic(err)
	}
}

// Merge 把另一个组的任务和子组并入当前组
// 两边同层出现重名时返回 ErrDuplicateName,当前组保持不变
func (g *Group) Merge(others ...*Group) error {
	seen := make(map[string]struct{})
	for _, t := range g.tasks {
		seen[t.Name] = struct{}{}
	}
	for _, sub := range g.groups {
		seen[sub.Name] = struct{}{}
	}
	for _, other := range others {
		for _, t := range other.tasks {
			if _, ok := seen[t.Name]; ok {
				return fmt.Errorf("%w: task %q brought in by group %q", ErrDuplicateName, t.Name, other.Name)
			}
			seen[t.Name] = struct{}{}
		}
		for _, sub := range other.groups {
			if _, ok := seen[sub.Name]; ok {
				return fmt.Errorf("%w: group %q brought in by group %q", ErrDuplicateName, sub.Name, other.Name)
			}
			seen[sub.Name] = struct{}{}
		}
	}
	for _, other := range others {
		g.tasks = append(g.tasks, other.tasks...)
		g.groups = append(g.groups, other.groups...)
	}
	return nil
}

// Tasks 返回组里直接声明的任务
func (g *Group) Tasks() []*Task {
	return g.tasks
}

// Groups 返回组里直接声明的子组
func (g *Group) Groups() []*Group {
	return g.groups
}

func (g *Group) has(name string) bool {
	for _, t := range g.tasks {
		if t.Name == name {
			return true
		}
	}
	for _, sub := range g.groups {
		if sub.Name == name {
			return true
		}
	}
	return false
}
