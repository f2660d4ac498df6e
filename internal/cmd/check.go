package cmd

import (
	"context"
	"encoding/json"
	"time"

	"copartwatch/internal/checker"
	"copartwatch/internal/config"
	"copartwatch/internal/copart"
	"copartwatch/internal/network"
	"copartwatch/internal/notify"
)

type CheckCmd struct {
	State   string `help:"Path to the seen lots JSON file."`
	DryRun  bool   `help:"Report new listings without notifying or updating state."`
	Proxies string `help:"Comma-separated proxy URLs."`
}

func (c *CheckCmd) Run(ctx *Context) error {
	statePath := config.ResolveStatePath(c.State, ctx.Config)
	criteria := ctx.Config.SearchCriteria()

	client, err := buildNetworkClient(c.Proxies)
	if err != nil {
		return err
	}
	fetcher := copart.NewClient(client, ctx.Logger)

	token, chatID := config.Credentials()
	if !c.DryRun && (token == "" || chatID == "") {
		ctx.UI.Warnf("BOT_TOKEN or CHAT_ID not set; new listings will not be announced")
	}
	notifier := notify.NewTelegram(token, chatID)

	watch := checker.New(checker.Config{
		StatePath: statePath,
		Criteria:  criteria,
		DryRun:    c.DryRun,
	}, fetcher, notifier, ctx.Logger)

	stopIndicator := startProgressIndicator(ctx, "Checking Copart")
	report, err := watch.Run(context.Background())
	if stopIndicator != nil {
		stopIndicator()
	}
	if err != nil {
		return err
	}

	return writeCheckReport(ctx, c.DryRun, report)
}

func writeCheckReport(ctx *Context, dryRun bool, report checker.Report) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Summary)
	}

	s := report.Summary
	if s.NewCars == 0 {
		ctx.UI.Infof("No new cars. %d matching, %d already seen, %d listings total.",
			s.CurrentlySeen, s.PreviouslySeen, s.TotalCount)
		return nil
	}

	ctx.UI.Successf("Found %d new car(s):", s.NewCars)
	for _, listing := range report.Fresh {
		ctx.UI.Infof("  %s  %s  %s", listing.LotNumber, listing.Title(), listing.URL)
	}
	switch {
	case dryRun:
		ctx.UI.Warnf("Dry run: no alert sent, state unchanged.")
	case report.Notified:
		ctx.UI.Successf("Telegram alert sent.")
	default:
		ctx.UI.Warnf("Alert not delivered; lots recorded as seen anyway.")
		if ctx.Verbose && report.NotifyErr != nil {
			ctx.UI.Warnf("  telegram: %v", report.NotifyErr)
		}
	}
	return nil
}

func buildNetworkClient(proxiesFlag string) (*network.Client, error) {
	proxies, err := config.LoadProxies(proxiesFlag)
	if err != nil {
		return nil, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return nil, err
		}
	}
	return network.NewClient(rotator)
}
