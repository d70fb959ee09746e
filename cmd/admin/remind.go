package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/sadaqa/internal/notify"
)

func remindCmd() *cobra.Command {
	var (
		channel string
		message string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "remind [member id...]",
		Short: "Send pending payment reminders",
		Long: `Send a pending payment reminder by SMS or email.

Members are given by business key (MBR####). With --all every member in
scope with a pending balance is reminded. Failures are reported per member
and never retried.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := resolveScope(cmd)
			if err != nil {
				return err
			}

			ids := args

			if all {
				p, err := services.Reports.PendingCollection(cmd.Context(), sc, nil)
				if err != nil {
					return err
				}

				ids = nil
				for _, r := range p.Rows {
					ids = append(ids, r.Member.MemberID)
				}
			}

			if len(ids) == 0 {
				return errors.New("give at least one member id or --all")
			}

			out := cmd.OutOrStdout()

			var failed int

			for _, id := range ids {
				res, err := services.Reports.Statement(cmd.Context(), sc, id)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s: %v\n", id, err)

					continue
				}

				if _, err := services.Notify.Remind(cmd.Context(), *res, notify.Channel(channel), message); err != nil {
					failed++
					fmt.Fprintf(out, "%s: %v\n", id, err)

					continue
				}

				fmt.Fprintf(out, "%s: reminded %s by %s\n", id, res.Member.DisplayName(), channel)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d reminders failed", failed, len(ids))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&channel, "channel", "c", string(notify.ChannelSMS), "sms or email")
	cmd.Flags().StringVarP(&message, "message", "m", "", "custom message (default: composed from the balance)")
	cmd.Flags().BoolVar(&all, "all", false, "remind every member with a pending balance")

	return cmd
}
