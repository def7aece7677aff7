package fabexplorer

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hedisam/fabexplorer/internal/projection"
)

type FollowFlags struct {
	Org  string
	From string
}

var followFlags FollowFlags

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Print blocks as JSON lines as they are committed",
	Long: `Follow prints every block from --from onwards, then keeps polling the channel
every explorer.poll_interval and prints new blocks until interrupted. Without
--from it starts at the current height.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		org, err := resolveOrg(followFlags.Org)
		if err != nil {
			return err
		}

		a := newApp(ctx, logger, cfg)
		defer a.Close()
		e, err := a.explorers.get(org)
		if err != nil {
			return err
		}

		var from uint64
		if followFlags.From != "" {
			from, err = parseBound(followFlags.From, 0)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
		} else {
			from, err = e.Height(ctx)
			if err != nil {
				return err
			}
		}

		logger.WithField("org", org).WithField("from", from).Info("Following channel...")
		enc := json.NewEncoder(os.Stdout)
		for res := range e.Follow(ctx, from, cfg.Explorer.PollInterval) {
			if res.Err != nil {
				logger.WithError(res.Err).WithField("number", res.Number).Warn("Skipping unreadable block")
			}
			if err := enc.Encode(projection.Project(res)); err != nil {
				return fmt.Errorf("write block %d: %w", res.Number, err)
			}
		}

		logger.Info("Stopped following")
		return nil
	},
}

func init() {
	followCmd.Flags().StringVar(&followFlags.Org, "org", "", "Organization to query as, defaults to fabric.default_org")
	followCmd.Flags().StringVar(&followFlags.From, "from", "", "First block number to print, defaults to the current height")
	followCmd.Flags().Duration("poll-interval", 0, "How often to poll for new blocks")
	mustBindPFlag(followCmd.Flags(), "explorer.poll_interval", "poll-interval")
}
