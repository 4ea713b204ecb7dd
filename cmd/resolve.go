/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"example.com/KitTools/pkg/sshconf"
)

var resolveSSHConfig string

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <alias>",
	Short: "解析 ssh_config 中的主机别名,显示连接参数和跳板链",
	Long: `按 OpenSSH 客户端配置的语义解析一个主机别名,
显示最终生效的连接参数 (主机名、端口、用户、密钥等),
以及通过 ProxyJump / ProxyCommand 推导出来的完整跳板链。

用法示例:
kittools resolve web-1
kittools resolve --ssh-config deploy/ssh_config web-1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveSSHConfig
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			path = filepath.Join(home, ".ssh", "config")
		}
		cfg, err := sshconf.ParseFile(path)
		if err != nil {
			return err
		}

		chain, err := cfg.Chain(args[0])
		if err != nil {
			return err
		}
		target := chain[len(chain)-1]

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Host\t%s\n", target.Name)
		fmt.Fprintf(w, "Hostname\t%s\n", target.Hostname)
		fmt.Fprintf(w, "Port\t%d\n", target.Port)
		fmt.Fprintf(w, "User\t%s\n", target.User)
		if len(target.IdentityFiles) > 0 {
			fmt.Fprintf(w, "IdentityFile\t%s\n", strings.Join(target.IdentityFiles, ", "))
		}
		fmt.Fprintf(w, "StrictHostKeyChecking\t%s\n", target.StrictHostKeyChecking)
		w.Flush()

		if len(chain) > 1 {
			hops := make([]string, len(chain))
			for i, hop := range chain {
				hops[i] = hop.Addr()
			}
			fmt.Printf("\n跳板链: %s\n", strings.Join(hops, " -> "))
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveSSHConfig, "ssh-config", "", "ssh_config 文件路径 (默认 ~/.ssh/config)")
	rootCmd.AddCommand(resolveCmd)
}
