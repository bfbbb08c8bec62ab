package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskflow-api/internal/app"
	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/infrastructure/db/redis"
)

func watchCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a user's notifications as they are published (needs Redis)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if a.Redis == nil {
					return errors.New("watch needs REDIS_ENABLED=true")
				}
				sub := redis.NewPublisher(a.Redis).Subscribe(ctx, userID)
				defer sub.Close()

				fmt.Printf("watching %s (ctrl-c to stop)\n", redis.Channel(userID))
				for {
					select {
					case <-ctx.Done():
						return nil
					case msg, ok := <-sub.Channel():
						if !ok {
							return nil
						}
						var n domain.Notification
						if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
							a.Log.Warn().Err(err).Msg("undecodable notification")
							continue
						}
						fmt.Printf("%s  %s\n", n.CreatedAt.Format("15:04:05"), n.Message)
					}
				}
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "recipient user id")
	return cmd
}
