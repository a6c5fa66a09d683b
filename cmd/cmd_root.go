package cmd

import (
	"fmt"

	"articledesk/pkg/util"

	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	var configFilePath string
	cmd := &cobra.Command{
		Use:   util.AppName,
		Short: "文章发布服务",
	}
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "./etc/config/config.yaml", "配置文件路径")
	cmd.AddCommand(NewServerCommand())
	cmd.AddCommand(NewImportCommand())
	cmd.AddCommand(NewVersionCommand())
	return cmd
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "输出版本信息",
		Run: func(cmd *cobra.Command, args []string) {
			v := util.GetVersion()
			fmt.Printf("%s %s (%s, %s)\n", v.AppName, v.Version, v.GoVersion, v.Platform)
		},
	}
}
