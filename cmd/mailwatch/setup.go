package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/mailwatch/internal/credential"
	"github.com/nhle/mailwatch/internal/model"
)

func newSetupCmd(opts *rootOptions, logger *log.Logger) *cobra.Command {
	var forget bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store the Gmail address and app password in the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if forget {
				if err := credential.DeleteCredentials(); err != nil {
					return err
				}
				logger.Info("credentials removed from keyring")
				return nil
			}

			a, err := loadApp(opts, logger)
			if err != nil {
				return err
			}

			var (
				creds  credential.Credentials
				verify = true
			)
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Gmail address").
						Placeholder("you@gmail.com").
						Value(&creds.Username).
						Validate(validateRequired("Gmail address")),
					huh.NewInput().
						Title("App password").
						Description("Generated under Google Account > Security > App passwords").
						EchoMode(huh.EchoModePassword).
						Value(&creds.Password).
						Validate(validateRequired("App password")),
					huh.NewConfirm().
						Title("Verify login now").
						Affirmative("Yes").
						Negative("No").
						Value(&verify),
				),
			)
			if err := form.RunWithContext(cmd.Context()); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				return fmt.Errorf("running setup form: %w", err)
			}

			creds.Username = strings.TrimSpace(creds.Username)
			creds.Password = strings.TrimSpace(creds.Password)

			if verify {
				unread, err := a.ValidateLogin(cmd.Context(), creds)
				if err != nil {
					return err
				}
				logger.Info("login verified", "folder", a.Config().IMAP.Folder, "unread", unread)
			}

			if err := a.SaveCredentials(creds); err != nil {
				return err
			}

			if _, err := os.Stat(opts.configPath); errors.Is(err, os.ErrNotExist) {
				if err := model.SaveConfig(opts.configPath, a.Config()); err != nil {
					return err
				}
				logger.Info("wrote default config", "path", opts.configPath)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&forget, "forget", false, "remove the stored credentials instead")

	return cmd
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
