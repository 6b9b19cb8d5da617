package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/campuscalm-widgets/internal/export"
	"github.com/nhle/campuscalm-widgets/internal/remote"
)

func newChatCmd(c *cli) *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the support chat without the full UI",
	}

	sendCmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send one message and print the reply",
		Long: `Sends a message to the backend and prints the reply. If the backend
fails the reply comes from local rules after a short pause. Both
messages are added to the session's conversation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.chatSend(cmd, strings.Join(args, " "))
		},
	}

	var format string
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Print the session's conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.chatHistory(cmd, format)
		},
	}
	historyCmd.Flags().StringVarP(&format, "format", "f", string(export.FormatMarkdown), "output format: markdown, json or yaml")

	chatCmd.AddCommand(sendCmd, historyCmd)
	return chatCmd
}

func (c *cli) chatSend(cmd *cobra.Command, text string) error {
	ctx := cmd.Context()
	rt, err := c.openRuntime(ctx, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	sub, ok := rt.Pipeline.Submit(text)
	if !ok {
		return errors.New("message is empty")
	}

	select {
	case <-sub.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if !sub.Settled() {
		return errors.New("reply abandoned")
	}

	msg, fallback := sub.Reply()
	if fallback {
		c.logger.Info("answered from local rules", zap.String("submission", sub.ID))
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg.Text)
	return nil
}

func (c *cli) chatHistory(cmd *cobra.Command, format string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	rt, err := c.openRuntime(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	return export.Write(cmd.OutOrStdout(), f, rt.Locale, rt.Chat.History())
}

// failureKind names a backend failure for terse CLI output.
func failureKind(err error) string {
	if k := remote.Kind(err); k != "" {
		return k
	}
	return "ok"
}
