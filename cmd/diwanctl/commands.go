package main

import (
	"fmt"
	"strconv"

	"github.com/diwan-maarifa/diwan-backend/pkg/client"
	"github.com/spf13/cobra"
)

func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid submission id %q", arg)
	}
	return id, nil
}

func newPendingCommand(ctx *commandContext) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List submissions waiting for your review stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, meta, err := ctx.client().Pending(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			if *ctx.asJSON {
				return writeJSON(cmd, items)
			}
			renderSubmissions(cmd.OutOrStdout(), items, meta)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a submission and its workflow history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			detail, err := ctx.client().Show(cmd.Context(), id)
			if err != nil {
				return err
			}
			if *ctx.asJSON {
				return writeJSON(cmd, detail)
			}
			renderDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}
}

var decisions = map[string]string{
	"approve":        "approved",
	"approved":       "approved",
	"reject":         "rejected",
	"rejected":       "rejected",
	"revise":         "needs_revision",
	"needs_revision": "needs_revision",
}

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var comments string
	cmd := &cobra.Command{
		Use:   "review <id> <approve|reject|revise>",
		Short: "Record a review decision for the current stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			decision, ok := decisions[args[1]]
			if !ok {
				return fmt.Errorf("unknown decision %q (want approve, reject or revise)", args[1])
			}
			sub, err := ctx.client().Review(cmd.Context(), id, decision, comments)
			if err != nil {
				return err
			}
			return printStatus(cmd, ctx, sub)
		},
	}
	cmd.Flags().StringVarP(&comments, "comments", "m", "", "Reviewer comments")
	return cmd
}

func newPublishCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish an approved submission (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sub, err := ctx.client().Publish(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printStatus(cmd, ctx, sub)
		},
	}
}

func newUnpublishCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unpublish <id>",
		Short: "Withdraw a published submission back to draft (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sub, err := ctx.client().Unpublish(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printStatus(cmd, ctx, sub)
		},
	}
}

func newPublishedCommand(ctx *commandContext) *cobra.Command {
	var f client.PublishedFilter
	cmd := &cobra.Command{
		Use:   "published",
		Short: "List public content",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, meta, err := ctx.client().Published(cmd.Context(), f)
			if err != nil {
				return err
			}
			if *ctx.asJSON {
				return writeJSON(cmd, items)
			}
			renderSubmissions(cmd.OutOrStdout(), items, meta)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&f.CategoryID, "category", 0, "Category id")
	cmd.Flags().StringVar(&f.ContentType, "type", "", "term or article")
	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "Title/content substring")
	cmd.Flags().IntVar(&f.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.Limit, "limit", 20, "Page size")
	return cmd
}

func printStatus(cmd *cobra.Command, ctx *commandContext, sub *client.Submission) error {
	if *ctx.asJSON {
		return writeJSON(cmd, sub)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "#%d %s -> %s\n", sub.ID, sub.Title, sub.Status)
	return nil
}
