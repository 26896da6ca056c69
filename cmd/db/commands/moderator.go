package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/robalyx/assigner/internal/database/models"
	"github.com/robalyx/assigner/internal/database/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// ModeratorCommands returns commands managing moderator accounts.
func ModeratorCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "save-moderator",
			Usage:     "Create or update a moderator account",
			ArgsUsage: "ACCOUNT_ID",
			Description: `Create or update the moderator flags of an account.

Examples:
  db save-moderator 42 --reputation 120        # Active moderator with reputation 120
  db save-moderator 42 --suspended             # Suspend an existing moderator
  db save-moderator 7 --management --moderator=false  # Organisation account`,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "moderator", Value: true, Usage: "Account holds the moderator role"},
				&cli.BoolFlag{Name: "inactive", Usage: "Account is not active"},
				&cli.BoolFlag{Name: "suspended", Usage: "Account is suspended"},
				&cli.BoolFlag{Name: "zombie", Usage: "Account is a zombie"},
				&cli.BoolFlag{Name: "management", Usage: "Account is a management account"},
				&cli.IntFlag{Name: "reputation", Aliases: []string{"r"}, Usage: "Reputation score"},
			},
			Action: handleSaveModerator(deps),
		},
		{
			Name:  "list-eligible",
			Usage: "List moderators passing the base eligibility predicate",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 100, Usage: "Maximum rows"},
			},
			Action: handleListEligible(deps),
		},
	}
}

func handleSaveModerator(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		id, err := parseAccountID(c)
		if err != nil {
			return err
		}

		moderator := &types.Moderator{
			ID:           id,
			IsModerator:  c.Bool("moderator"),
			IsActive:     !c.Bool("inactive"),
			IsSuspended:  c.Bool("suspended"),
			IsZombie:     c.Bool("zombie"),
			IsManagement: c.Bool("management"),
			Reputation:   int(c.Int("reputation")),
		}

		if err := deps.DB.Model().Moderator().SaveModerators(ctx, []*types.Moderator{moderator}); err != nil {
			return err
		}

		deps.Logger.Info("Saved moderator",
			zap.Int64("id", moderator.ID),
			zap.Bool("eligible", moderator.IsEligible()),
			zap.Int("reputation", moderator.Reputation))

		return nil
	}
}

func handleListEligible(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		moderators, err := deps.DB.Model().Moderator().ListEligible(ctx, models.ModeratorFilter{
			Limit: int(c.Int("limit")),
		})
		if err != nil {
			return err
		}

		for i, moderator := range moderators {
			fmt.Printf("%3d. %d (reputation %d)\n", i+1, moderator.ID, moderator.Reputation)
		}

		deps.Logger.Info("Listed eligible moderators", zap.Int("count", len(moderators)))

		return nil
	}
}

func parseAccountID(c *cli.Command) (int64, error) {
	if c.Args().Len() != 1 {
		return 0, ErrAccountRequired
	}

	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidID, c.Args().First())
	}

	return id, nil
}
