package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/campuscalm-widgets/internal/notify"
	"github.com/nhle/campuscalm-widgets/internal/remote"
)

func newBellCmd(c *cli) *cobra.Command {
	var asJSON bool
	bellCmd := &cobra.Command{
		Use:   "bell",
		Short: "Show the unread badge and the latest notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.bellShow(cmd, asJSON)
		},
	}
	bellCmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	var target string
	readCmd := &cobra.Command{
		Use:   "read [id]",
		Short: "Mark one notification read and print where it leads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid notification id %q: %w", args[0], err)
			}
			return c.bellRead(cmd, id, target)
		},
	}
	readCmd.Flags().StringVar(&target, "target", "", "destination path (default: the notification's own target)")

	readAllCmd := &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification read",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.bellReadAll(cmd)
		},
	}

	bellCmd.AddCommand(readCmd, readAllCmd)
	return bellCmd
}

type bellOutput struct {
	Unread  int                `json:"unread"`
	Badge   string             `json:"badge,omitempty"`
	Entries []notify.EntryView `json:"entries"`
	Message string             `json:"message,omitempty"`
	Failure string             `json:"failure,omitempty"`
}

func (c *cli) bellShow(cmd *cobra.Command, asJSON bool) error {
	ctx := cmd.Context()
	snap := &notify.Snapshot{}
	rt, err := c.openRuntime(ctx, snap)
	if err != nil {
		return err
	}
	defer rt.Close()

	res := rt.Bell.Refresh(ctx)
	if err := res.Err(); err != nil {
		c.logger.Warn("bell refresh failed", zap.Error(err))
	}

	out := bellOutput{
		Unread:  snap.Badge().Count,
		Entries: snap.List().Entries,
		Message: snap.List().Message,
	}
	if snap.Badge().Visible {
		out.Badge = snap.Badge().Text
	}
	if err := res.Err(); err != nil {
		out.Failure = failureKind(err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printBell(cmd.OutOrStdout(), out)
	return nil
}

func printBell(w io.Writer, out bellOutput) {
	if out.Badge != "" {
		fmt.Fprintf(w, "🔔 %s\n", out.Badge)
	} else {
		fmt.Fprintln(w, "🔔")
	}
	if out.Message != "" {
		fmt.Fprintln(w, out.Message)
		return
	}
	for _, e := range out.Entries {
		mark := " "
		if e.Unread {
			mark = "●"
		}
		fmt.Fprintf(w, "%s [%d] %s\n", mark, e.ID, e.Title)
		if e.Body != "" {
			fmt.Fprintf(w, "      %s\n", e.Body)
		}
		if e.Date != "" {
			fmt.Fprintf(w, "      %s\n", e.Date)
		}
	}
}

func (c *cli) bellRead(cmd *cobra.Command, id int64, target string) error {
	ctx := cmd.Context()
	snap := &notify.Snapshot{}
	rt, err := c.openRuntime(ctx, snap)
	if err != nil {
		return err
	}
	defer rt.Close()

	if target == "" {
		target = c.lookupTarget(cmd, rt.Client, id)
	}

	if err := rt.Bell.MarkOneRead(ctx, id, target); err != nil {
		c.logger.Warn("mark read failed", zap.Int64("id", id), zap.Error(err))
	}
	for _, url := range snap.Navigated() {
		fmt.Fprintln(cmd.OutOrStdout(), rt.Client.Resolve(url))
	}
	return nil
}

// lookupTarget finds the notification among the latest ones to follow
// its own link. An unknown id leads to the default destination.
func (c *cli) lookupTarget(cmd *cobra.Command, client *remote.Client, id int64) string {
	items, err := client.Latest(cmd.Context(), remote.LatestLimit)
	if err != nil {
		c.logger.Debug("latest unavailable", zap.Error(err))
		return notify.DefaultTarget
	}
	for _, item := range items {
		if item.ID == id {
			return notify.TargetOf(item.TargetURL)
		}
	}
	return notify.DefaultTarget
}

func (c *cli) bellReadAll(cmd *cobra.Command) error {
	ctx := cmd.Context()
	snap := &notify.Snapshot{}
	rt, err := c.openRuntime(ctx, snap)
	if err != nil {
		return err
	}
	defer rt.Close()

	if _, err := rt.Bell.MarkAllRead(ctx); err != nil {
		return fmt.Errorf("marking all read (%s): %w", failureKind(err), err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), rt.Locale.Pick("Todas as notificacoes foram lidas.", "All notifications marked read."))
	return nil
}
