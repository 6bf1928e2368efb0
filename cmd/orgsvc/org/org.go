package org

import (
	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/orgsvc/orgsvc/cmd"
	"github.com/orgsvc/orgsvc/pkg/backend"
	"github.com/orgsvc/orgsvc/pkg/proto"
	"github.com/spf13/cobra"
)

// Command returns the org subcommand.
var Command = &cobra.Command{
	Use:                "org",
	Aliases:            []string{"orgs", "organisation"},
	Short:              "Manage organisations",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	var owner, description string
	orgCreateCommand := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an organisation owned by a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			opts := proto.OrganisationOptions{
				Name: proto.String(args[0]),
			}
			if description != "" {
				opts.Description = proto.String(description)
			}

			o, err := be.CreateOrganisation(ctx, owner, opts)
			if err != nil {
				return err
			}

			cmd.Println(o.ID)
			return nil
		},
	}

	orgCreateCommand.Flags().StringVarP(&owner, "owner", "o", "", "id of the user creating the organisation")
	orgCreateCommand.Flags().StringVarP(&description, "description", "d", "", "description of the organisation")
	orgCreateCommand.MarkFlagRequired("owner") // nolint: errcheck

	orgInfoCommand := &cobra.Command{
		Use:   "info ID",
		Short: "Show information about an organisation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			o, err := be.Organisation(ctx, args[0])
			if err != nil {
				return err
			}

			desc := "-"
			if o.Description != nil {
				desc = *o.Description
			}

			cmd.Printf("ID: %s\n", o.ID)
			cmd.Printf("Name: %s\n", o.Name)
			cmd.Printf("Description: %s\n", desc)
			cmd.Printf("Created: %s\n", humanize.Time(o.CreatedAt))
			return nil
		},
	}

	orgMembersCommand := &cobra.Command{
		Use:   "members ID",
		Short: "List the members of an organisation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			users, err := be.Members(ctx, args[0])
			if err != nil {
				return err
			}

			return tablewriter.Render(
				cmd.OutOrStdout(),
				users,
				[]string{"ID", "Name", "Email", "Created"},
				func(u proto.User) ([]string, error) {
					return []string{
						u.ID,
						u.FirstName + " " + u.LastName,
						u.Email,
						humanize.Time(u.CreatedAt),
					}, nil
				},
			)
		},
	}

	var requester string
	orgAddMemberCommand := &cobra.Command{
		Use:   "add-member ORG USER",
		Short: "Add a user to an organisation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			return be.AddMember(ctx, requester, args[0], proto.MemberOptions{
				UserID: proto.String(args[1]),
			})
		},
	}

	orgAddMemberCommand.Flags().StringVar(&requester, "as", "", "id of the member performing the addition")

	Command.AddCommand(
		orgCreateCommand,
		orgInfoCommand,
		orgMembersCommand,
		orgAddMemberCommand,
	)
}
