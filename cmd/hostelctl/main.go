// hostelctl 运维命令行：数据库迁移、预置数据与宿管查询
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "hostelctl",
		Short:        "宿舍分配系统运维工具",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	rootCmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		wardensCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
