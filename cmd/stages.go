/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// stagesCmd represents the stages command
var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "列出配置文件里声明的所有 stage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kctx, err := app.Context()
		if err != nil {
			return err
		}
		cfg := kctx.Config()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tHOSTS\tBASEDIR")
		for _, name := range cfg.StageNames() {
			stage, _ := cfg.GetStage(name)
			hosts := "-"
			if len(stage.Hosts()) > 0 {
				hosts = strings.Join(stage.Hosts(), ",")
			}
			basedir := stage.Basedir
			if basedir == "" {
				basedir = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, stage.Type, hosts, basedir)
		}
		return w.Flush()
	},
}

// stacksCmd represents the stacks command
var stacksCmd = &cobra.Command{
	Use:   "stacks",
	Short: "列出配置文件里声明的所有 stack",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kctx, err := app.Context()
		if err != nil {
			return err
		}
		cfg := kctx.Config()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tFILE")
		for _, name := range cfg.StackNames() {
			stack := cfg.Stacks[name]
			file := stack.File
			if file == "" {
				file = "-"
			}
			fmt.Fprintf(w, "%s\t%s\n", name, file)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(stacksCmd)
}
