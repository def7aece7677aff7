package fabexplorer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hedisam/fabexplorer/internal/explorer"
	"github.com/hedisam/fabexplorer/internal/ledger"
	"github.com/hedisam/fabexplorer/internal/projection"
	"github.com/hedisam/fabexplorer/internal/wideint"
)

type ExportFlags struct {
	Org    string
	From   string
	To     string
	Output string
	NoBar  bool
}

var exportFlags ExportFlags

var exportCmd = &cobra.Command{
	Use:   "export <blocks|transactions>",
	Short: "Write the ledger as JSON lines",
	Long: `Export writes one JSON document per line, in block order. Blocks that cannot be
read are written as {"number":..., "error":...} placeholders and the export
carries on. It stops if the query service becomes unavailable.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"blocks", "transactions"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] != "blocks" && args[0] != "transactions" {
			return fmt.Errorf("unknown export kind %q, expected blocks or transactions", args[0])
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		org, err := resolveOrg(exportFlags.Org)
		if err != nil {
			return err
		}
		from, err := parseBound(exportFlags.From, 0)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		to, err := parseBound(exportFlags.To, ^uint64(0))
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}

		out := io.Writer(os.Stdout)
		if exportFlags.Output != "" && exportFlags.Output != "-" {
			f, err := os.Create(exportFlags.Output)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		a := newApp(ctx, logger, cfg)
		defer a.Close()
		e, err := a.explorers.get(org)
		if err != nil {
			return err
		}
		height, err := e.Height(ctx)
		if err != nil {
			return err
		}
		to = min(to, height)
		if from > to {
			return fmt.Errorf("%w: from %d is greater than the last block %d", explorer.ErrInvalidRange, from, to)
		}

		var bar *progressbar.ProgressBar
		if !exportFlags.NoBar && exportFlags.Output != "" && exportFlags.Output != "-" {
			bar = newProgressBar(int64(to-from), "Exporting "+args[0]+"...")
		}

		blocks, err := e.Range(ctx, from, to)
		if err != nil {
			return err
		}
		exp := &exporter{logger: logger, enc: json.NewEncoder(out), bar: bar, from: from}
		if args[0] == "transactions" {
			err = exp.transactions(blocks)
		} else {
			err = exp.blocks(blocks)
		}
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("export interrupted: %w", err)
		}

		logger.WithFields(logrus.Fields{
			"org":       org,
			"attempted": exp.attempted,
			"failed":    exp.failed,
			"written":   exp.written,
		}).Info("Export finished")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.Org, "org", "", "Organization to query as, defaults to fabric.default_org")
	exportCmd.Flags().StringVar(&exportFlags.From, "from", "", "First block number to export")
	exportCmd.Flags().StringVar(&exportFlags.To, "to", "", "Block number to stop before, defaults to the chain height")
	exportCmd.Flags().StringVarP(&exportFlags.Output, "output", "o", "", "Output file, stdout if empty")
	exportCmd.Flags().BoolVar(&exportFlags.NoBar, "no-progress", false, "Do not display a progress bar")
}

// exporter writes projected results as JSON lines.
type exporter struct {
	logger *logrus.Logger
	enc    *json.Encoder
	bar    *progressbar.ProgressBar
	from   uint64

	attempted int
	failed    int
	written   int
}

func (x *exporter) blocks(blocks <-chan *explorer.BlockResult) error {
	for res := range blocks {
		if err := x.record(res); err != nil {
			return err
		}
		if err := x.enc.Encode(projection.Project(res)); err != nil {
			return fmt.Errorf("write block %d: %w", res.Number, err)
		}
		x.written++
	}
	return nil
}

func (x *exporter) transactions(blocks <-chan *explorer.BlockResult) error {
	for res := range blocks {
		if err := x.record(res); err != nil {
			return err
		}
		if res.Err != nil {
			if err := x.enc.Encode(projection.Project(res)); err != nil {
				return fmt.Errorf("write placeholder of block %d: %w", res.Number, err)
			}
			x.written++
			continue
		}
		for _, tx := range ledger.ExtractTransactions(res.Block) {
			if err := x.enc.Encode(projection.Project(tx)); err != nil {
				return fmt.Errorf("write transaction %s: %w", tx.TxID, err)
			}
			x.written++
		}
	}
	return nil
}

func (x *exporter) record(res *explorer.BlockResult) error {
	x.attempted++
	if x.bar != nil {
		_ = x.bar.Set64(int64(res.Number - x.from + 1))
	}
	if res.Err == nil {
		return nil
	}
	if errors.Is(res.Err, explorer.ErrServiceUnavailable) {
		return res.Err
	}
	x.failed++
	x.logger.WithError(res.Err).WithField("number", res.Number).Warn("Exporting placeholder for unreadable block")
	return nil
}

func newProgressBar(total int64, description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions64(
		total,
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	_ = bar.RenderBlank()
	return bar
}

// parseBound normalizes an optional block number flag.
func parseBound(raw string, def uint64) (uint64, error) {
	if raw == "" {
		return def, nil
	}
	return wideint.Normalize(raw)
}
