package user

import (
	"time"

	"github.com/caarlos0/duration"
	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/orgsvc/orgsvc/cmd"
	"github.com/orgsvc/orgsvc/pkg/backend"
	"github.com/orgsvc/orgsvc/pkg/proto"
	"github.com/orgsvc/orgsvc/pkg/token"
	"github.com/spf13/cobra"
)

// Command returns the user subcommand.
var Command = &cobra.Command{
	Use:                "user",
	Aliases:            []string{"users"},
	Short:              "Manage users",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	var firstName, lastName, password, phone, tokenExpiresIn string
	userCreateCommand := &cobra.Command{
		Use:   "create EMAIL",
		Short: "Register a new user and their organisation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			opts := proto.RegisterOptions{
				FirstName: proto.String(firstName),
				LastName:  proto.String(lastName),
				Email:     proto.String(args[0]),
				Password:  proto.String(password),
			}
			if phone != "" {
				opts.Phone = proto.String(phone)
			}

			s, err := be.Register(ctx, opts)
			if err != nil {
				return err
			}

			cmd.Println(s.User.ID)
			return nil
		},
	}

	userCreateCommand.Flags().StringVarP(&firstName, "first-name", "f", "", "first name of the user")
	userCreateCommand.Flags().StringVarP(&lastName, "last-name", "l", "", "last name of the user")
	userCreateCommand.Flags().StringVarP(&password, "password", "p", "", "password of the user")
	userCreateCommand.Flags().StringVar(&phone, "phone", "", "phone number of the user")

	userInfoCommand := &cobra.Command{
		Use:   "info ID",
		Short: "Show information about a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			u, err := be.User(ctx, args[0])
			if err != nil {
				return err
			}

			phone := "-"
			if u.Phone != nil {
				phone = *u.Phone
			}

			cmd.Printf("ID: %s\n", u.ID)
			cmd.Printf("Name: %s %s\n", u.FirstName, u.LastName)
			cmd.Printf("Email: %s\n", u.Email)
			cmd.Printf("Phone: %s\n", phone)
			cmd.Printf("Created: %s\n", humanize.Time(u.CreatedAt))
			return nil
		},
	}

	userOrgsCommand := &cobra.Command{
		Use:   "orgs ID",
		Short: "List the organisations of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			orgs, err := be.ListMyOrganisations(ctx, args[0])
			if err != nil {
				return err
			}

			if len(orgs) == 0 {
				cmd.Println("No organisations found")
				return nil
			}

			return tablewriter.Render(
				cmd.OutOrStdout(),
				orgs,
				[]string{"ID", "Name", "Description", "Created"},
				func(o proto.Organisation) ([]string, error) {
					desc := "-"
					if o.Description != nil {
						desc = *o.Description
					}

					return []string{
						o.ID,
						o.Name,
						desc,
						humanize.Time(o.CreatedAt),
					}, nil
				},
			)
		},
	}

	userTokenCommand := &cobra.Command{
		Use:   "token ID",
		Short: "Issue a bearer token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)

			var expiresIn time.Duration
			if tokenExpiresIn != "" {
				d, err := duration.Parse(tokenExpiresIn)
				if err != nil {
					return err
				}
				if d <= 0 {
					return token.ErrInvalidTTL
				}
				expiresIn = d
			}

			tok, err := be.IssueToken(ctx, args[0], expiresIn)
			if err != nil {
				return err
			}

			ttl := expiresIn
			if ttl == 0 {
				ttl = be.Tokens().TTL()
			}
			cmd.PrintErrln("Token issued (expires " + humanize.Time(time.Now().Add(ttl)) + ")")
			cmd.Println(tok)
			return nil
		},
	}

	userTokenCommand.Flags().StringVar(&tokenExpiresIn, "expires-in", "", "Token expiration time (e.g. 1y, 3mo, 2w, 5d4h, 1h30m)")

	Command.AddCommand(
		userCreateCommand,
		userInfoCommand,
		userOrgsCommand,
		userTokenCommand,
	)
}
