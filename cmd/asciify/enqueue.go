package main

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"asciify/internal/config"
	"asciify/internal/worker/queue"
)

func newEnqueueCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue <object-key> [<object-key>...]",
		Short: "Queue source blobs for the worker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.RedisAddr == "" {
				return errors.New("REDIS_ADDR is required")
			}
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer rdb.Close()

			q := queue.NewRedisQueue(rdb, cfg.Queue)
			if err := q.Push(cmd.Context(), args...); err != nil {
				return err
			}
			pending, err := q.Len(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queued %d key(s) on %s (%d pending)\n", len(args), q.Name(), pending)
			return nil
		},
	}
	return cmd
}
