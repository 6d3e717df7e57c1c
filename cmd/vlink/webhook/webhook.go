// Package webhook implements the webhook management commands.
package webhook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/venturelinkhq/venturelink/cmd"
	"github.com/venturelinkhq/venturelink/pkg/backend"
	wh "github.com/venturelinkhq/venturelink/pkg/webhook"
)

var asHandle string

// Command is the webhook command.
var Command = &cobra.Command{
	Use:                "webhook",
	Aliases:            []string{"webhooks"},
	Short:              "Manage webhooks",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

var webhookEvents []string

func init() {
	events := wh.Events()
	webhookEvents = make([]string, len(events))
	for i, e := range events {
		webhookEvents[i] = e.String()
	}

	Command.PersistentFlags().StringVar(&asHandle, "as", "", "act as the user with this handle")
	Command.AddCommand(
		webhookListCommand(),
		webhookCreateCommand(),
		webhookUpdateCommand(),
		webhookDeleteCommand(),
		webhookDeliveriesCommand(),
	)
}

func parseEvents(events []string) ([]wh.Event, error) {
	var evs []wh.Event
	for _, e := range events {
		ev, err := wh.ParseEvent(e)
		if err != nil {
			return nil, fmt.Errorf("invalid event: %w", err)
		}

		evs = append(evs, ev)
	}

	return evs, nil
}

func parseContentType(contentType string) (wh.ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "json":
		return wh.ContentTypeJSON, nil
	case "form":
		return wh.ContentTypeForm, nil
	default:
		return -1, wh.ErrInvalidContentType
	}
}

func webhookListCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List webhooks",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			user, err := cmd.ResolveUser(c, asHandle)
			if err != nil {
				return err
			}

			webhooks, err := be.ListWebhooks(ctx, user)
			if err != nil {
				return err
			}

			return tablewriter.Render(
				c.OutOrStdout(),
				webhooks,
				[]string{"ID", "URL", "Events", "Active", "Created At", "Updated At"},
				func(h wh.Hook) ([]string, error) {
					events := make([]string, len(h.Events))
					for i, e := range h.Events {
						events[i] = e.String()
					}

					return []string{
						strconv.FormatInt(h.ID, 10),
						h.URL,
						strings.Join(events, ","),
						strconv.FormatBool(h.Active),
						humanize.Time(h.CreatedAt),
						humanize.Time(h.UpdatedAt),
					}, nil
				},
			)
		},
	}

	return c
}

func webhookCreateCommand() *cobra.Command {
	var events []string
	var secret string
	var active bool
	var contentType string
	c := &cobra.Command{
		Use:   "create URL",
		Short: "Create a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			user, err := cmd.ResolveUser(c, asHandle)
			if err != nil {
				return err
			}

			evs, err := parseEvents(events)
			if err != nil {
				return err
			}

			ct, err := parseContentType(contentType)
			if err != nil {
				return err
			}

			return be.CreateWebhook(ctx, user, strings.TrimSpace(args[0]), ct, secret, evs, active)
		},
	}

	c.Flags().StringSliceVarP(&events, "events", "e", nil, fmt.Sprintf("events to trigger the webhook, available events are (%s)", strings.Join(webhookEvents, ", ")))
	c.Flags().StringVarP(&secret, "secret", "s", "", "secret to sign the webhook payload")
	c.Flags().BoolVarP(&active, "active", "a", true, "whether the webhook is active")
	c.Flags().StringVarP(&contentType, "content-type", "c", "json", "content type of the webhook payload, can be either `json` or `form`")

	return c
}

func webhookUpdateCommand() *cobra.Command {
	var events []string
	var secret string
	var active string
	var contentType string
	var url string
	c := &cobra.Command{
		Use:   "update WEBHOOK_ID",
		Short: "Update a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			user, err := cmd.ResolveUser(c, asHandle)
			if err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid webhook ID: %w", err)
			}

			hook, err := be.Webhook(ctx, user, id)
			if err != nil {
				return err
			}

			newURL := hook.URL
			if url != "" {
				newURL = url
			}

			newSecret := hook.Secret
			if secret != "" {
				newSecret = secret
			}

			newActive := hook.Active
			if active != "" {
				active, err := strconv.ParseBool(active)
				if err != nil {
					return fmt.Errorf("invalid active value: %w", err)
				}

				newActive = active
			}

			newContentType := hook.ContentType
			if contentType != "" {
				ct, err := parseContentType(contentType)
				if err != nil {
					return err
				}

				newContentType = ct
			}

			newEvents := hook.Events
			if len(events) > 0 {
				evs, err := parseEvents(events)
				if err != nil {
					return err
				}

				newEvents = evs
			}

			return be.UpdateWebhook(ctx, user, id, newURL, newContentType, newSecret, newEvents, newActive)
		},
	}

	c.Flags().StringSliceVarP(&events, "events", "e", nil, fmt.Sprintf("events to trigger the webhook, available events are (%s)", strings.Join(webhookEvents, ", ")))
	c.Flags().StringVarP(&secret, "secret", "s", "", "secret to sign the webhook payload")
	c.Flags().StringVarP(&active, "active", "a", "", "whether the webhook is active")
	c.Flags().StringVarP(&contentType, "content-type", "c", "", "content type of the webhook payload, can be either `json` or `form`")
	c.Flags().StringVarP(&url, "url", "u", "", "webhook URL")

	return c
}

func webhookDeleteCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "delete WEBHOOK_ID",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a webhook",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			user, err := cmd.ResolveUser(c, asHandle)
			if err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid webhook ID: %w", err)
			}

			return be.DeleteWebhook(ctx, user, id)
		},
	}

	return c
}

func webhookDeliveriesCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "deliveries",
		Short:   "Manage webhook deliveries",
		Aliases: []string{"delivery", "deliver"},
	}

	c.AddCommand(
		webhookDeliveriesListCommand(),
		webhookDeliveriesGetCommand(),
	)

	return c
}

func webhookDeliveriesListCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "list WEBHOOK_ID",
		Short: "List webhook deliveries",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			user, err := cmd.ResolveUser(c, asHandle)
			if err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid webhook ID: %w", err)
			}

			// Listing through the hook checks ownership first.
			if _, err := be.Webhook(ctx, user, id); err != nil {
				return err
			}

			dels, err := be.ListWebhookDeliveries(ctx, id)
			if err != nil {
				return err
			}

			return tablewriter.Render(
				c.OutOrStdout(),
				dels,
				[]string{"Status", "ID", "Event", "Created At"},
				func(d wh.Delivery) ([]string, error) {
					status := "failed"
					if d.ResponseStatus >= 200 && d.ResponseStatus < 300 {
						status = "ok"
					}

					return []string{
						status,
						d.ID.String(),
						d.Event.String(),
						humanize.Time(d.CreatedAt),
					}, nil
				},
			)
		},
	}

	return c
}

func webhookDeliveriesGetCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "get WEBHOOK_ID DELIVERY_ID",
		Short: "Get a webhook delivery",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			user, err := cmd.ResolveUser(c, asHandle)
			if err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid webhook ID: %w", err)
			}

			delID, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid delivery ID: %w", err)
			}

			if _, err := be.Webhook(ctx, user, id); err != nil {
				return err
			}

			del, err := be.WebhookDelivery(ctx, id, delID)
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			fmt.Fprintf(out, "ID: %s\n", del.ID)                             //nolint:errcheck
			fmt.Fprintf(out, "Event: %s\n", del.Event)                       //nolint:errcheck
			fmt.Fprintf(out, "Request URL: %s\n", del.RequestURL)            //nolint:errcheck
			fmt.Fprintf(out, "Request Method: %s\n", del.RequestMethod)      //nolint:errcheck
			fmt.Fprintf(out, "Request Error: %s\n", del.RequestError.String) //nolint:errcheck
			fmt.Fprintf(out, "Request Headers:\n")                           //nolint:errcheck
			reqHeaders := strings.Split(del.RequestHeaders, "\n")
			for _, h := range reqHeaders {
				fmt.Fprintf(out, "  %s\n", h) //nolint:errcheck
			}

			fmt.Fprintf(out, "Request Body:\n") //nolint:errcheck
			reqBody := strings.Split(del.RequestBody, "\n")
			for _, b := range reqBody {
				fmt.Fprintf(out, "  %s\n", b) //nolint:errcheck
			}

			fmt.Fprintf(out, "Response Status: %d\n", del.ResponseStatus) //nolint:errcheck
			fmt.Fprintf(out, "Response Headers:\n")                       //nolint:errcheck
			resHeaders := strings.Split(del.ResponseHeaders, "\n")
			for _, h := range resHeaders {
				fmt.Fprintf(out, "  %s\n", h) //nolint:errcheck
			}

			fmt.Fprintf(out, "Response Body:\n") //nolint:errcheck
			resBody := strings.Split(del.ResponseBody, "\n")
			for _, b := range resBody {
				fmt.Fprintf(out, "  %s\n", b) //nolint:errcheck
			}

			return nil
		},
	}

	return c
}
