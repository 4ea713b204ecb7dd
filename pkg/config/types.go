package config

// 阶段类型
const (
	StageTypeLocal  = "local"
	StageTypeRemote = "remote"
)

// Stage 一个部署环境 (如 dev / staging / prod)
// local 类型的 stage 在本机执行命令,remote 类型通过 SSH 在目标主机执行
type Stage struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Hostname  string   `yaml:"hostname,omitempty"`
	Hostnames []string `yaml:"hostnames,omitempty"`
	SSHConfig string   `yaml:"ssh_config,omitempty"`
	Basedir   string   `yaml:"basedir,omitempty"`
}

// Hosts 返回 stage 的所有目标主机别名
// hostname 和 hostnames 可以同时出现,hostname 排在最前
func (s *Stage) Hosts() []string {
	hosts := make([]string, 0, len(s.Hostnames)+1)
	if s.Hostname != "" {
		hosts = append(hosts, s.Hostname)
	}
	hosts = append(hosts, s.Hostnames...)
	return hosts
}

// IsRemote 是否是远程 stage
func (s *Stage) IsRemote() bool {
	return s.Type == StageTypeRemote
}

// Stack 一组需要部署的服务定义 (如 compose 文件)
// 这里只做配置层面的解析和罗列,不负责编排
type Stack struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// Config 对应 yaml 配置文件的顶层结构
// stage/stack 单数形式是只有一个环境时的简写,Normalize 会把它们并入复数形式
type Config struct {
	Path string `yaml:"-"`

	Stages map[string]*Stage `yaml:"stages,omitempty"`
	Stacks map[string]*Stack `yaml:"stacks,omitempty"`

	Stage *Stage `yaml:"stage,omitempty"`
	Stack *Stack `yaml:"stack,omitempty"`
}
