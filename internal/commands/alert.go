package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"trading-toolkit/internal/types"
	"trading-toolkit/lib/helpers"
)

func (t *Toolkit) CommandAlert(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", usageError("alert needs a subcommand")
	}

	switch args[0] {
	case "create":
		if len(args) != 4 {
			return "", usageError("alert create <pair_id> <price> <ltp>")
		}
		price, err := parseFloat("price", args[2])
		if err != nil {
			return "", err
		}
		ltp, err := parseFloat("ltp", args[3])
		if err != nil {
			return "", err
		}
		alert := types.Alert{PairID: args[1], Price: price}
		if err := t.Investing.CreateAlert(ctx, alert, ltp); err != nil {
			return "", errors.Wrap(err, "command alert create")
		}
		return fmt.Sprintf("Alert %s %s for pair %s created.", directionOf(price, ltp), helpers.FormatPrice(price), alert.PairID), nil
	case "delete":
		if len(args) != 2 {
			return "", usageError("alert delete <alert_id>")
		}
		if err := t.Investing.DeleteAlert(ctx, args[1]); err != nil {
			return "", errors.Wrap(err, "command alert delete")
		}
		return fmt.Sprintf("Alert %s deleted.", args[1]), nil
	case "list":
		alerts, err := t.Investing.ListAlerts(ctx)
		if err != nil {
			return "", errors.Wrap(err, "command alert list")
		}
		return formatAlerts(alerts), nil
	}
	return "", usageError("unknown alert subcommand %q", args[0])
}

func formatAlerts(alerts []types.Alert) string {
	if len(alerts) == 0 {
		return "No alerts."
	}
	var sb strings.Builder
	for _, a := range alerts {
		fmt.Fprintf(&sb, "%-10s pair %-10s @ %s\n", a.ID, a.PairID, helpers.FormatPrice(a.Price))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func directionOf(price, ltp float64) string {
	if price > ltp {
		return "above"
	}
	return "below"
}

func (t *Toolkit) CommandSearch(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", usageError("search <query>")
	}
	pairs, err := t.Investing.FetchSymbolData(ctx, query)
	if err != nil {
		return "", errors.Wrap(err, "command search")
	}

	var sb strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&sb, "%-10s %-8s %-10s %s\n", p.PairID, p.Exchange, p.Symbol, p.Name)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
