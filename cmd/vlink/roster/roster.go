// Package roster implements the roster commands.
package roster

import (
	"time"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/venturelinkhq/venturelink/cmd"
	"github.com/venturelinkhq/venturelink/pkg/backend"
	"github.com/venturelinkhq/venturelink/pkg/config"
	"github.com/venturelinkhq/venturelink/pkg/identity"
	"github.com/venturelinkhq/venturelink/pkg/proto"
	rs "github.com/venturelinkhq/venturelink/pkg/roster"
)

var (
	asHandle string
	watch    bool
)

// Command is the roster command.
var Command = &cobra.Command{
	Use:                "roster",
	Aliases:            []string{"affiliations"},
	Short:              "Work with a user's company roster",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	Command.PersistentFlags().StringVar(&asHandle, "as", "", "act as the user with this handle")
	Command.PersistentFlags().BoolVar(&watch, "watch", false, "print roster state transitions")

	Command.AddCommand(
		rosterListCommand(),
		rosterCurrentCommand(),
		rosterAddCommand(),
		rosterUpdateCommand(),
		rosterRemoveCommand(),
	)
}

// openRoster signs the resolved user into a fresh session, builds a
// synchronizer over the backend, and loads the roster. The returned cleanup
// detaches the watch subscription and closes the synchronizer.
func openRoster(c *cobra.Command) (*rs.Synchronizer, func(), error) {
	ctx := c.Context()
	cfg := config.FromContext(ctx)
	be := backend.FromContext(ctx)

	user, err := cmd.ResolveUser(c, asHandle)
	if err != nil {
		return nil, nil, err
	}

	session := identity.NewSession()
	roster := rs.New(ctx, be, session,
		rs.WithTimeout(time.Duration(cfg.Roster.Timeout)*time.Second))

	var unwatch func()
	if watch {
		unwatch = roster.Subscribe(func(st rs.State) {
			c.PrintErrf("%s owner=%d records=%d loading=%t saving=%t err=%v\n",
				st.Status, st.Owner, len(st.Affiliations), st.Loading, st.Saving, st.Err)
		})
	}

	cleanup := func() {
		if unwatch != nil {
			unwatch()
		}
		roster.Close() //nolint:errcheck
	}

	session.SignIn(user)
	if err := roster.Initialize(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}

	return roster, cleanup, nil
}

func renderAffiliations(c *cobra.Command, affs []proto.Affiliation) error {
	if len(affs) == 0 {
		c.Println("No affiliations found")
		return nil
	}

	return tablewriter.Render(
		c.OutOrStdout(),
		affs,
		[]string{"ID", "Company", "Title", "Website", "Added"},
		func(a proto.Affiliation) ([]string, error) {
			website := a.WebsiteURL
			if website == "" {
				website = "-"
			}

			return []string{
				a.ID,
				a.CompanyName,
				a.Title,
				website,
				humanize.Time(a.DateAdded),
			}, nil
		},
	)
}

func rosterListCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all affiliations, newest first",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			roster, cleanup, err := openRoster(c)
			if err != nil {
				return err
			}
			defer cleanup()

			return renderAffiliations(c, roster.Affiliations())
		},
	}

	return c
}

func rosterCurrentCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "current",
		Short: "List affiliations whose title reads as an active role",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			roster, cleanup, err := openRoster(c)
			if err != nil {
				return err
			}
			defer cleanup()

			return renderAffiliations(c, roster.Current())
		},
	}

	return c
}

func rosterAddCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "add COMPANY TITLE [WEBSITE]",
		Short: "Add an affiliation",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(c *cobra.Command, args []string) error {
			roster, cleanup, err := openRoster(c)
			if err != nil {
				return err
			}
			defer cleanup()

			change := proto.AffiliationChange{
				CompanyName: args[0],
				Title:       args[1],
			}
			if len(args) > 2 {
				change.WebsiteURL = args[2]
			}

			aff, err := roster.Add(c.Context(), change)
			if err != nil {
				return err
			}

			c.PrintErrln("Affiliation added")
			c.Println(aff.ID)
			return nil
		},
	}

	return c
}

func rosterUpdateCommand() *cobra.Command {
	var company string
	var title string
	var website string
	c := &cobra.Command{
		Use:   "update ID",
		Short: "Update an affiliation",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			roster, cleanup, err := openRoster(c)
			if err != nil {
				return err
			}
			defer cleanup()

			id := args[0]
			var change proto.AffiliationChange
			found := false
			for _, aff := range roster.Affiliations() {
				if aff.ID == id {
					change = proto.AffiliationChange{
						CompanyName: aff.CompanyName,
						Title:       aff.Title,
						WebsiteURL:  aff.WebsiteURL,
					}
					found = true
					break
				}
			}
			if !found {
				return proto.ErrAffiliationNotFound
			}

			if company != "" {
				change.CompanyName = company
			}
			if title != "" {
				change.Title = title
			}
			if c.Flags().Changed("website") {
				change.WebsiteURL = website
			}

			if _, err := roster.Update(c.Context(), id, change); err != nil {
				return err
			}

			c.PrintErrln("Affiliation updated")
			return nil
		},
	}

	c.Flags().StringVarP(&company, "company", "c", "", "new company name")
	c.Flags().StringVarP(&title, "title", "t", "", "new role title")
	c.Flags().StringVarP(&website, "website", "w", "", "new website URL, pass an empty string to clear it")

	return c
}

func rosterRemoveCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove an affiliation",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			roster, cleanup, err := openRoster(c)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := roster.Delete(c.Context(), args[0]); err != nil {
				return err
			}

			c.PrintErrln("Affiliation removed")
			return nil
		},
	}

	return c
}
