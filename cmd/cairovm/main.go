// Command cairovm drives the memory subsystem through one illustrative
// scenario — segment allocation, a range_check builtin, and the
// set_add hint — and reports the resulting relocation table and memory
// holes. There is no program loader or instruction decoder here; the
// memory subsystem is library-shaped and this is its smallest host.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quadratic-labs/cairovm-go/internal/config"
)

func newLogger(cfg *config.Config) *logrus.Entry {
	logger := logrus.New()
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger.WithField("run_id", uuid.NewString())
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "cairovm",
		Short: "Drive the Cairo VM memory subsystem through a worked scenario",
	}
	cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(newRunCmd(cfg))
	root.AddCommand(newInspectCmd(cfg))
	return root
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the set_add demo scenario and print its outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cfg)
			result, err := runDemo(cfg.SegmentHint, log)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"is_elm_in_set": result.IsElmInSet.String(),
				"holes":         result.Holes,
			}).Info("set_add completed")
			fmt.Printf("is_elm_in_set = %s\n", result.IsElmInSet)
			if result.Index != nil {
				fmt.Printf("index = %s\n", result.Index)
			}
			return nil
		},
	}
}

func newInspectCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Run the demo scenario and render its relocation/holes report",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cfg)
			result, err := runDemo(cfg.SegmentHint, log)
			if err != nil {
				return err
			}
			renderReport(result, cfg.OutputFormat)
			return result.ValidationErr
		},
	}
}

// renderReport prints the relocation table and memory-holes count,
// either as an aligned table (jedib0t/go-pretty, the style
// sarchlab-zeonica uses for its own CLI reports) or, for the "json"
// format, as a single JSON object.
func renderReport(result *demoResult, format string) {
	validation := "ok"
	if result.ValidationErr != nil {
		validation = result.ValidationErr.Error()
	}

	if format == "json" {
		fmt.Printf(`{"holes":%d,"validation":%q,"relocation_table":[`, result.Holes, validation)
		for i, base := range result.RelocationTable {
			if i > 0 {
				fmt.Print(",")
			}
			fmt.Print(base)
		}
		fmt.Println("]}")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Relocation table")
	t.AppendHeader(table.Row{"Segment", "Base"})
	for i, base := range result.RelocationTable {
		t.AppendRow(table.Row{i, base})
	}
	t.Render()

	holes := table.NewWriter()
	holes.SetOutputMirror(os.Stdout)
	holes.AppendHeader(table.Row{"Memory holes", "Validation"})
	holes.AppendRow(table.Row{result.Holes, validation})
	holes.Render()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
