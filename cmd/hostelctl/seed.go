package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiven424/hostel-system/internal/service"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "写入预置宿舍楼与房间（已存在的跳过）",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			created, err := service.NewSeedService(e.repo(), e.logger).Seed(cmd.Context())
			fmt.Printf("新建宿舍楼 %d 栋\n", created)
			return err
		},
	}
}
