package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/campuscalm-widgets/internal/credential"
	"github.com/nhle/campuscalm-widgets/internal/model"
	"github.com/nhle/campuscalm-widgets/internal/ui/login"
)

func newLoginCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the backend address and session cookie",
		Long: `Asks for the backend URL, the sessionid cookie of a signed-in web
session and the interface language. The cookie goes to the system
keyring; the rest is written to the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &login.Result{
				BaseURL: c.cfg.Backend.BaseURL,
				Locale:  c.cfg.Locale,
			}
			if err := login.Run(r); err != nil {
				return err
			}
			return c.saveLogin(cmd, r)
		},
	}
}

func (c *cli) saveLogin(cmd *cobra.Command, r *login.Result) error {
	if err := credential.SetSessionCookie(r.SessionCookie); err != nil {
		return err
	}

	c.cfg.Backend.BaseURL = r.BaseURL
	if r.Locale != "" {
		c.cfg.Locale = r.Locale
	}
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := model.SaveConfig(c.configPath, c.cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", c.configPath)
	return nil
}

func newSessionCmd(c *cli) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the stored session",
	}

	var logout bool
	endCmd := &cobra.Command{
		Use:   "end",
		Short: "Forget the conversation and the cached unread count",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.openRuntime(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.EndSession(cmd.Context()); err != nil {
				return err
			}
			if logout {
				if err := credential.DeleteSessionCookie(); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session %s ended\n", rt.SessionID)
			return nil
		},
	}
	endCmd.Flags().BoolVar(&logout, "logout", false, "also delete the stored session cookie")

	sessionCmd.AddCommand(endCmd)
	return sessionCmd
}
