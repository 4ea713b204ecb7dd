package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultStageName 没有声明任何 stage 时合成的默认本地 stage 名
const DefaultStageName = "default"

// Load 读取并归一化一份配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize 归一化配置:
//   - 单数的 stage/stack 并入复数的 map 中
//   - map 的 key 回填为 name 字段
//   - 没有任何 stage 时合成一个默认的 local stage
func (c *Config) Normalize() error {
	if c.Stages == nil {
		c.Stages = make(map[string]*Stage)
	}
	if c.Stacks == nil {
		c.Stacks = make(map[string]*Stack)
	}

	if c.Stage != nil {
		name := c.Stage.Name
		if name == "" {
			name = DefaultStageName
			c.Stage.Name = name
		}
		if _, ok := c.Stages[name]; ok {
			return fmt.Errorf("config declares both stage %q and stages.%s", name, name)
		}
		c.Stages[name] = c.Stage
		c.Stage = nil
	}
	if c.Stack != nil {
		name := c.Stack.Name
		if name == "" {
			return fmt.Errorf("config declares a stack without a name")
		}
		if _, ok := c.Stacks[name]; ok {
			return fmt.Errorf("config declares both stack %q and stacks.%s", name, name)
		}
		c.Stacks[name] = c.Stack
		c.Stack = nil
	}

	for name, stage := range c.Stages {
		if stage == nil {
			stage = &Stage{}
			c.Stages[name] = stage
		}
		stage.Name = name
		if stage.Type == "" {
			stage.Type = StageTypeLocal
		}
		if stage.Type != StageTypeLocal && stage.Type != StageTypeRemote {
			return fmt.Errorf("stage %q has unsupported type %q", name, stage.Type)
		}
		if stage.IsRemote() && len(stage.Hosts()) == 0 {
			return fmt.Errorf("remote stage %q declares no hostname", name)
		}
	}
	for name, stack := range c.Stacks {
		if stack == nil {
			stack = &Stack{}
			c.Stacks[name] = stack
		}
		stack.Name = name
	}

	if len(c.Stages) == 0 {
		c.Stages[DefaultStageName] = &Stage{
			Name: DefaultStageName,
			Type: StageTypeLocal,
		}
	}
	return nil
}

// StageNames 返回排序后的 stage 名称列表
func (c *Config) StageNames() []string {
	names := make([]string, 0, len(c.Stages))
	for name := range c.Stages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StackNames 返回排序后的 stack 名称列表
func (c *Config) StackNames() []string {
	names := make([]string, 0, len(c.Stacks))
	for name := range c.Stacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetStage 按名称查找 stage
func (c *Config) GetStage(name string) (*Stage, bool) {
	stage, ok := c.Stages[name]
	return stage, ok
}

// DefaultStage 确定默认的 stage:
// 只有一个 stage 时直接用它,否则优先选名为 default 的
func (c *Config) DefaultStage() (*Stage, error) {
	if len(c.Stages) == 1 {
		for _, stage := range c.Stages {
			return stage, nil
		}
	}
	if stage, ok := c.Stages[DefaultStageName]; ok {
		return stage, nil
	}
	return nil, fmt.Errorf("multiple stages declared, use --stage to pick one of: %v", c.StageNames())
}
