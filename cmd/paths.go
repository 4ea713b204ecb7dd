/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "列出任务树里所有任务的调用路径",
	Long: `按字典序列出任务树里所有任务的完整调用路径,
给 shell 补全脚本和外部工具消费。`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range app.tree.Paths() {
			fmt.Println(path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
