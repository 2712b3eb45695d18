package main

import (
	"bufio"
	"contactbook/contact"
	"contactbook/pkg/config"
	"contactbook/pkg/logger"
	"contactbook/pkg/sentry"
	"contactbook/storage"
	"contactbook/tui"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	sentrygo "github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once the persistent pre-run has
// loaded configuration and contacts.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	svc     *contact.Usecase
	loadErr error
	close   storage.CloseFunc
}

type contactFlags struct {
	name  string
	phone string
	email string
}

func (f *contactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Contact name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Contact phone number")
	cmd.Flags().StringVar(&f.email, "email", "", "Contact email address (optional)")
}

// shutdown flushes pending Sentry events and releases the storage. It runs
// after the command whether or not it failed.
func (a *app) shutdown() error {
	sentrygo.Flush(sentry.FlushTime)
	if a.close == nil {
		return nil
	}
	closeFn := a.close
	a.close = nil
	return closeFn()
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "contactbook",
		Short: "Keep track of your contacts",
		Long: `contactbook manages a personal list of contacts. Without a subcommand it
opens the interactive terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			model := tui.New(cmd.Context(), a.svc, tui.WithLoadError(a.loadErr))
			_, err := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}

	rootCmd.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logFile := cfg.Log.File
	if logFile == "" && cmd.Parent() == nil {
		// the terminal UI owns stdout
		logFile = os.DevNull
	}
	a.logger = logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   logFile,
		Output: cmd.ErrOrStderr(),
	})
	slog.SetDefault(a.logger)

	if err := sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	}); err != nil {
		a.logger.Warn("cannot init sentry", "error", err)
	}

	svc, closeFn, err := storage.NewService(cmd.Context(), cfg, a.logger)
	if svc == nil {
		sentry.Fatal(err)
		return err
	}
	a.svc = svc
	a.close = closeFn
	if err != nil {
		a.loadErr = err
		sentry.WithTags(map[string]string{"storage": cfg.Storage.Driver}).Error(err)
		if cmd.Parent() != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", userMessage(err))
		}
	}
	return nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contacts, err := a.svc.ListContacts(cmd.Context())
			if err != nil {
				return err
			}
			printContacts(cmd.OutOrStdout(), contacts)
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var flags contactFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			added, err := a.svc.AddContact(cmd.Context(), contact.Contact{
				Name:  flags.name,
				Phone: flags.phone,
				Email: flags.email,
			})
			if added.ID != "" {
				fmt.Fprintln(cmd.OutOrStdout(), added.ID)
			}
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var flags contactFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a contact; fields without a flag keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := findContact(cmd, a.svc, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				current.Name = flags.name
			}
			if cmd.Flags().Changed("phone") {
				current.Phone = flags.phone
			}
			if cmd.Flags().Changed("email") {
				current.Email = flags.email
			}

			updated, err := a.svc.UpdateContact(cmd.Context(), args[0], current)
			if err != nil {
				return err
			}
			printContacts(cmd.OutOrStdout(), []contact.Contact{updated})
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := findContact(cmd, a.svc, args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Delete %s (%s)? [y/N] ", c.Name, c.Phone)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			if err := a.svc.DeleteContact(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Contact deleted successfully!")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

func findContact(cmd *cobra.Command, svc contact.Service, id string) (contact.Contact, error) {
	contacts, err := svc.ListContacts(cmd.Context())
	if err != nil {
		return contact.Contact{}, err
	}
	for _, c := range contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return contact.Contact{}, contact.ErrContactNotFound
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func printContacts(w io.Writer, contacts []contact.Contact) {
	if len(contacts) == 0 {
		fmt.Fprintln(w, "No contacts.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "PHONE", "EMAIL")
	for _, c := range contacts {
		t.Row(c.ID, c.Name, c.Phone, c.Email)
	}
	fmt.Fprintln(w, t.Render())
}
