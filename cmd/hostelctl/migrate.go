package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiven424/hostel-system/pkg/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "数据库迁移",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "执行全部未应用的迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := database.RunMigrations(e.sqlDB, e.logger); err != nil {
				return err
			}
			fmt.Println("迁移完成")
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "回滚最近的迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			if steps <= 0 {
				return fmt.Errorf("steps 必须大于 0")
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := database.RollbackMigrations(e.sqlDB, steps, e.logger); err != nil {
				return err
			}
			fmt.Printf("已回滚 %d 个版本\n", steps)
			return nil
		},
	}
	down.Flags().Int("steps", 1, "回滚的版本数")

	cmd.AddCommand(up, down)
	return cmd
}
