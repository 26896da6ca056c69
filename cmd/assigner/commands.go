package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robalyx/assigner/internal/assign"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/robalyx/assigner/internal/database/types/enum"
	"github.com/robalyx/assigner/internal/redis"
	"github.com/robalyx/assigner/internal/rotation"
	"github.com/robalyx/assigner/internal/worker/core"
	"github.com/urfave/cli/v3"
)

var (
	ErrAssignmentRequired = errors.New("ASSIGNMENT_ID argument required")
	ErrInvalidID          = errors.New("invalid ID: must be a number")
)

func requestCommand() *cli.Command {
	return &cli.Command{
		Name:  "request",
		Usage: "Request moderation of a target",
		Description: `Assign a moderator to a project, core project, competition or profile.

Examples:
  assigner request --type project --target 12
  assigner request --type competition --target 3 --reassign-rejected
  assigner request --type profile --target 42 --internal --requester 7
  assigner request --type project --target 12 --only-from 5,9`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "type",
				Aliases:  []string{"t"},
				Usage:    "Target type (" + strings.Join(enum.ModerationTypeStrings(), ", ") + ")",
				Required: true,
			},
			&cli.IntFlag{Name: "target", Usage: "Target ID", Required: true},
			&cli.IntFlag{Name: "requester", Usage: "Requesting account, defaults to the target owner"},
			&cli.BoolFlag{Name: "reassign-rejected", Usage: "Reassign when the last review rejected the target"},
			&cli.BoolFlag{Name: "reassign-approved", Usage: "Reassign when the last review approved the target"},
			&cli.BoolFlag{Name: "internal", Usage: "Keep the request inside the requester's management group"},
			&cli.IntFlag{Name: "stale-days", Usage: "Days before the assignment may be reassigned"},
			&cli.IntFlag{Name: "moderator", Usage: "Assign this moderator instead of rotating"},
			&cli.StringFlag{Name: "preferred", Usage: "Comma separated moderators to prefer"},
			&cli.StringFlag{Name: "only-from", Usage: "Comma separated moderators to choose from"},
			&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "Message for the moderator"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			moderationType, err := enum.ModerationTypeString(c.String("type"))
			if err != nil {
				return err
			}

			preferred, err := parseIDList(c.String("preferred"))
			if err != nil {
				return err
			}

			onlyFrom, err := parseIDList(c.String("only-from"))
			if err != nil {
				return err
			}

			req := assign.Request{
				Type:               moderationType,
				TargetID:           c.Int("target"),
				Requester:          c.Int("requester"),
				ReassignIfRejected: c.Bool("reassign-rejected"),
				ReassignIfApproved: c.Bool("reassign-approved"),
				Internal:           c.Bool("internal"),
				StaleDays:          int(c.Int("stale-days")),
				ChosenModerator:    c.Int("moderator"),
				PreferredOnly:      preferred,
				OnlyFrom:           onlyFrom,
				Message:            c.String("message"),
			}

			return withSession(ctx, func(ctx context.Context, s *session) error {
				assignment, err := s.engine.RequestModeration(ctx, req)
				if err != nil {
					return err
				}

				printAssignment(assignment)

				return nil
			})
		},
	}
}

func resolveCommand(name string, approve bool) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     "Record the " + name + " decision of the assigned moderator",
		ArgsUsage: "ASSIGNMENT_ID",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "moderator", Usage: "Moderator answering the request", Required: true},
			&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "Response message"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return ErrAssignmentRequired
			}

			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidID, c.Args().First())
			}

			return withSession(ctx, func(ctx context.Context, s *session) error {
				assignment, err := s.engine.Resolve(ctx, id, c.Int("moderator"), approve, c.String("message"))
				if err != nil {
					return err
				}

				printAssignment(assignment)

				return nil
			})
		},
	}
}

func rotationCommand() *cli.Command {
	return &cli.Command{
		Name:  "rotation",
		Usage: "Inspect rotation state",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the position of the global or a group rotation",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "group", Usage: "Management group ID, omit for the global rotation"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withSession(ctx, func(ctx context.Context, s *session) error {
						key := s.app.Config.Assigner.GlobalRotationKey
						if key == "" {
							key = rotation.GlobalKey
						}

						if group := c.Int("group"); group != 0 {
							key = rotation.GroupKey(group)
						}

						state, err := s.engine.Selector().State(ctx, key)
						if err != nil {
							return err
						}

						fmt.Printf("key:           %s\n", state.Key)
						fmt.Printf("last index:    %d\n", state.LastIndex)
						fmt.Printf("last selected: %d\n", state.LastSelected)

						return nil
					})
				},
			},
		},
	}
}

func workersCommand() *cli.Command {
	return &cli.Command{
		Name:  "workers",
		Usage: "Show notification worker heartbeats",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return withSession(ctx, func(ctx context.Context, s *session) error {
				client, err := s.app.RedisManager.GetClient(redis.WorkerStatusDBIndex)
				if err != nil {
					return err
				}

				statuses, err := core.NewMonitor(client, s.app.Logger).GetAllStatuses(ctx)
				if err != nil {
					return err
				}

				now := time.Now()
				for _, status := range statuses {
					state := "offline"
					if status.IsOnline(now) {
						state = "online"
					}

					fmt.Printf("%s %s %-7s delivered=%d failed=%d healthy=%t task=%q\n",
						status.WorkerType, status.WorkerID, state,
						status.Delivered, status.Failed, status.IsHealthy, status.CurrentTask)
				}

				return nil
			})
		},
	}
}

func printAssignment(a *types.ModerationAssignment) {
	fmt.Printf("assignment %d: %s %d -> moderator %d (%s, resolved=%t)\n",
		a.ID, a.Type, a.TargetID, a.ModeratorID, a.Status, a.Resolved)
}

// parseIDList parses a comma separated list of account IDs.
func parseIDList(value string) ([]int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var ids []int64

	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidID, part)
		}

		ids = append(ids, id)
	}

	return ids, nil
}
