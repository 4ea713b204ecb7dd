package sshconf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChainWithoutProxy(t *testing.T) {
	cfg, err := ParseFile("testdata/ssh_config")
	require.NoError(t, err)

	chain, err := cfg.Chain("testhost")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	require.Equal(t, "10.0.0.10", chain[0].Hostname)
}

func TestChainViaProxyCommandAlias(t *testing.T) {
	cfg, err := ParseFile("testdata/ssh_config")
	require.NoError(t, err)

	// ProxyCommand "ssh -W %h:%p jumphost" 展开成先连 jumphost 的两跳链
	chain, err := cfg.Chain("testhost-via-jumphost")
	require.NoError(t, err)
	require.Len(t, chain, 2)
	require.Equal(t, "jumphost", chain[0].Name)
	require.Equal(t, "bastion.example.com", chain[0].Hostname)
	require.Equal(t, 2222, chain[0].Port)
	require.Equal(t, "testhost-via-jumphost", chain[1].Name)
	require.Equal(t, "10.0.0.10", chain[1].Hostname)
}

func TestChainProxyJumpMultiHop(t *testing.T) {
	input := strings.Join([]string{
		"Host outer",
		"    Hostname outer.example.com",
		"Host inner",
		"    Hostname inner.example.com",
		"Host box",
		"    Hostname 10.0.0.20",
		"    ProxyJump outer,inner",
	}, "\n")
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	chain, err := cfg.Chain("box")
	require.NoError(t, err)
	require.Len(t, chain, 3)
	require.Equal(t, "outer.example.com", chain[0].Hostname)
	require.Equal(t, "inner.example.com", chain[1].Hostname)
	require.Equal(t, "10.0.0.20", chain[2].Hostname)
}

func TestChainNestedProxyJump(t *testing.T) {
	// 跳板自己也有跳板时递归展开
	input := strings.Join([]string{
		"Host bastion",
		"    Hostname bastion.example.com",
		"Host inner",
		"    Hostname inner.example.com",
		"    ProxyJump bastion",
		"Host box",
		"    Hostname 10.0.0.30",
		"    ProxyJump inner",
	}, "\n")
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	chain, err := cfg.Chain("box")
	require.NoError(t, err)
	require.Len(t, chain, 3)
	require.Equal(t, "bastion.example.com", chain[0].Hostname)
	require.Equal(t, "inner.example.com", chain[1].Hostname)
	require.Equal(t, "10.0.0.30", chain[2].Hostname)
}

func TestChainDetectsCycle(t *testing.T) {
	input := strings.Join([]string{
		"Host a",
		"    Hostname a.example.com",
		"    ProxyJump b",
		"Host b",
		"    Hostname b.example.com",
		"    ProxyJump a",
	}, "\n")
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	_, err = cfg.Chain("a")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle")
}

func TestChainDiamondTopology(t *testing.T) {
	// 两条并列的跳板分支共用同一个 bastion 不是环,
	// 重复出现的跳板在最终链里只保留一次
	input := strings.Join([]string{
		"Host bastion",
		"    Hostname bastion.example.com",
		"Host a",
		"    Hostname a.example.com",
		"    ProxyJump bastion",
		"Host b",
		"    Hostname b.example.com",
		"    ProxyJump bastion",
		"Host box",
		"    Hostname 10.0.0.60",
		"    ProxyJump a,b",
	}, "\n")
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	chain, err := cfg.Chain("box")
	require.NoError(t, err)
	require.Len(t, chain, 4)
	require.Equal(t, "bastion", chain[0].Name)
	require.Equal(t, "a", chain[1].Name)
	require.Equal(t, "b", chain[2].Name)
	require.Equal(t, "box", chain[3].Name)
}

func TestChainLiteralJumpSpec(t *testing.T) {
	// 不在配置里的跳板按 [user@]host[:port] 字面量处理
	input := strings.Join([]string{
		"Host box",
		"    Hostname 10.0.0.40",
		"    ProxyJump ops@bastion.example.com:2222",
	}, "\n")
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	chain, err := cfg.Chain("box")
	require.NoError(t, err)
	require.Len(t, chain, 2)
	require.Equal(t, "bastion.example.com", chain[0].Hostname)
	require.Equal(t, 2222, chain[0].Port)
	require.Equal(t, "ops", chain[0].User)
}

func TestChainBadLiteralJumpSpec(t *testing.T) {
	input := strings.Join([]string{
		"Host box",
		"    Hostname 10.0.0.40",
		"    ProxyJump bastion:not-a-port",
	}, "\n")
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	_, err = cfg.Chain("box")
	require.Error(t, err)
}

func TestChainIgnoresNonSSHProxyCommand(t *testing.T) {
	// 不是 "ssh ..." 形式的 ProxyCommand 不展开成跳板
	input := strings.Join([]string{
		"Host box",
		"    Hostname 10.0.0.50",
		"    ProxyCommand nc -x proxy:1080 %h %p",
	}, "\n")
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	chain, err := cfg.Chain("box")
	require.NoError(t, err)
	require.Len(t, chain, 1)
}
