package sshconf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	cfg, err := ParseFile("testdata/ssh_config")
	require.NoError(t, err)
	require.Equal(t, "testdata/ssh_config", cfg.Path())
	require.Equal(t, []string{"jumphost", "testhost", "testhost-via-jumphost", "web-1", "web-2"}, cfg.Aliases())
}

func TestParseKeywordSeparators(t *testing.T) {
	// 关键字和取值之间可以用空白或 '=' 分隔,取值可以加引号
	input := strings.Join([]string{
		"Host box",
		"Hostname=box.example.com",
		"User\tdeploy",
		`ProxyCommand "ssh -W %h:%p jump"`,
	}, "\n")
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	target, err := cfg.Resolve("box")
	require.NoError(t, err)
	require.Equal(t, "box.example.com", target.Hostname)
	require.Equal(t, "deploy", target.User)
	require.Contains(t, target.ProxyCommand, "ssh -W")
}

func TestParseImplicitGlobalBlock(t *testing.T) {
	// 第一个 Host 之前的配置等价于 Host *
	input := "User everyone\n\nHost box\n    Hostname box.example.com\n"
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	target, err := cfg.Resolve("box")
	require.NoError(t, err)
	require.Equal(t, "everyone", target.User)
}

func TestParseErrorCarriesFileAndLine(t *testing.T) {
	input := "Host box\n    Hostname box.example.com\n    Port not-a-number\n"
	_, err := Parse(strings.NewReader(input), "deploy/ssh_config")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "deploy/ssh_config", parseErr.File)
	require.Equal(t, 3, parseErr.Line)
	require.Contains(t, err.Error(), "deploy/ssh_config:3")
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"missing argument", "Host box\n    Hostname\n"},
		{"host without pattern", "Host\nHostname box\n"},
		{"bad compression", "Host box\n    Compression maybe\n"},
		{"bad strict host key checking", "Host box\n    StrictHostKeyChecking never\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input), "")
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestParseSkipsCommentsAndBlankLines(t *testing.T) {
	input := "# comment\n\nHost box\n    # inner comment\n    Hostname box.example.com\n"
	cfg, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)

	target, err := cfg.Resolve("box")
	require.NoError(t, err)
	require.Equal(t, "box.example.com", target.Hostname)
}
