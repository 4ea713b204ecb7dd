package sshconf

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveBasic(t *testing.T) {
	cfg, err := ParseFile("testdata/ssh_config")
	require.NoError(t, err)

	target, err := cfg.Resolve("jumphost")
	require.NoError(t, err)
	require.Equal(t, "jumphost", target.Name)
	require.Equal(t, "bastion.example.com", target.Hostname)
	require.Equal(t, 2222, target.Port)
	require.Equal(t, "ops", target.User)
	require.Equal(t, "bastion.example.com:2222", target.Addr())
	// 通配块的 ConnectTimeout 也要生效
	require.Equal(t, 10*time.Second, target.ConnectTimeout)
}

func TestResolveIdentityFileRelativeToConfigDir(t *testing.T) {
	cfg, err := ParseFile("testdata/ssh_config")
	require.NoError(t, err)

	target, err := cfg.Resolve("jumphost")
	require.NoError(t, err)
	require.Len(t, target.IdentityFiles, 1)
	require.Equal(t, filepath.Join("testdata", "keys", "jump_ed25519"), target.IdentityFiles[0])
}

func TestResolveNotFound(t *testing.T) {
	cfg, err := ParseFile("testdata/ssh_config")
	require.NoError(t, err)

	_, err = cfg.Resolve("no-such-host")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveWildcardOnlyWithoutHostnameIsNotFound(t *testing.T) {
	// 只有通配块且没有给出 Hostname 时,任意别名都不算定义过
	input := "Host *\n    User everyone\n"
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	_, err = cfg.Resolve("anything")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveWildcardSupplyingHostnameDefinesAlias(t *testing.T) {
	input := "Host web-*\n    Hostname %h.internal\n    User www\n"
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	target, err := cfg.Resolve("web-3")
	require.NoError(t, err)
	require.Equal(t, "web-3.internal", target.Hostname)
	require.Equal(t, "www", target.User)
}

func TestResolveFirstObtainedWins(t *testing.T) {
	input := strings.Join([]string{
		"Host box",
		"    User first",
		"Host box",
		"    User second",
		"    Hostname box.example.com",
	}, "\n")
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	target, err := cfg.Resolve("box")
	require.NoError(t, err)
	require.Equal(t, "first", target.User)
	require.Equal(t, "box.example.com", target.Hostname)
}

func TestResolveDefaults(t *testing.T) {
	input := "Host box\n    Hostname box.example.com\n"
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	target, err := cfg.Resolve("box")
	require.NoError(t, err)
	require.Equal(t, 22, target.Port)
	require.NotEmpty(t, target.User)
	require.Equal(t, "ask", target.StrictHostKeyChecking)
}

func TestResolveProxyCommandTokenExpansion(t *testing.T) {
	input := strings.Join([]string{
		"Host box",
		"    Hostname box.example.com",
		"    Port 2200",
		"    User deploy",
		"    ProxyCommand nc -x proxy:1080 %h %p",
	}, "\n")
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	target, err := cfg.Resolve("box")
	require.NoError(t, err)
	require.Equal(t, "nc -x proxy:1080 box.example.com 2200", target.ProxyCommand)
}

func TestResolveUnknownKeywordsKeptAsOptions(t *testing.T) {
	input := "Host box\n    Hostname box.example.com\n    ServerAliveInterval 30\n"
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	target, err := cfg.Resolve("box")
	require.NoError(t, err)
	require.Equal(t, "30", target.Options["serveraliveinterval"])
}

func TestResolveNegatedPattern(t *testing.T) {
	input := strings.Join([]string{
		"Host web-* !web-2",
		"    Hostname %h.internal",
	}, "\n")
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	_, err = cfg.Resolve("web-2")
	require.ErrorIs(t, err, ErrNotFound)

	target, err := cfg.Resolve("web-1")
	require.NoError(t, err)
	require.Equal(t, "web-1.internal", target.Hostname)
}
