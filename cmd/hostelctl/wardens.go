package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/service"
)

func wardensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wardens",
		Short: "列出宿管及其负责的宿舍楼",
		RunE: func(cmd *cobra.Command, args []string) error {
			unassigned, _ := cmd.Flags().GetBool("unassigned")

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			users := service.NewUserService(e.repo(), e.logger)
			var wardens []dto.UserResponse
			if unassigned {
				wardens, err = users.ListAssignableWardens(cmd.Context())
			} else {
				wardens, err = users.ListWardens(cmd.Context())
			}
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USERNAME\tEMAIL\tCONTACT\tHOSTEL")
			for _, w := range wardens {
				hostel := "-"
				if w.HostelName != nil {
					hostel = *w.HostelName
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", w.Username, w.Email, w.ContactNumber, hostel)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Bool("unassigned", false, "只列出尚未负责宿舍楼的宿管")
	return cmd
}
