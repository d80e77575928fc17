package main

import (
	"os"
	"strings"

	"github.com/diwan-maarifa/diwan-backend/pkg/client"
	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080/api/v1"

type commandContext struct {
	server *string
	token  *string
	asJSON *bool

	api *client.Client
}

func (c *commandContext) client() *client.Client {
	if c.api != nil {
		return c.api
	}
	server := strings.TrimSpace(*c.server)
	if server == "" {
		server = os.Getenv("DIWAN_SERVER")
	}
	if server == "" {
		server = defaultServer
	}
	creds := client.FirstOf(client.StaticToken(*c.token), client.EnvToken{})
	c.api = client.New(server, creds, nil)
	return c.api
}

func newRootCommand() *cobra.Command {
	var server, token string
	var asJSON bool
	ctx := &commandContext{server: &server, token: &token, asJSON: &asJSON}

	rootCmd := &cobra.Command{
		Use:           "diwanctl",
		Short:         "Operator CLI for the Diwan al-Maarifa review workflow",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&server, "server", "", "API base URL (default $DIWAN_SERVER or "+defaultServer+")")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (default $"+client.TokenEnv+")")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print raw JSON")

	rootCmd.AddCommand(newPendingCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newReviewCommand(ctx))
	rootCmd.AddCommand(newPublishCommand(ctx))
	rootCmd.AddCommand(newUnpublishCommand(ctx))
	rootCmd.AddCommand(newPublishedCommand(ctx))

	return rootCmd
}
