package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"trading-toolkit/internal/orders"
	"trading-toolkit/internal/types"
	"trading-toolkit/lib/helpers"
)

func (t *Toolkit) CommandGTT(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", usageError("gtt needs a subcommand")
	}

	switch args[0] {
	case "list":
		var (
			orderMap types.OrderMap
			err      error
		)
		if len(args) > 1 && args[1] == "cached" {
			orderMap, err = orders.LoadOrders(t.Store)
		} else {
			orderMap, err = t.Kite.ListGTT(ctx)
			if err == nil {
				err = orders.SaveOrders(t.Store, orderMap)
			}
		}
		if err != nil {
			return "", errors.Wrap(err, "command gtt list")
		}
		return formatOrders(orderMap), nil
	case "create":
		return t.createGTT(ctx, args[1:])
	case "delete":
		if len(args) != 2 {
			return "", usageError("gtt delete <id>")
		}
		id, err := parseInt("id", args[1])
		if err != nil {
			return "", err
		}
		if err := t.Kite.DeleteGTT(ctx, id); err != nil {
			return "", errors.Wrap(err, "command gtt delete")
		}
		return fmt.Sprintf("GTT %d deleted.", id), nil
	}
	return "", usageError("unknown gtt subcommand %q", args[0])
}

func (t *Toolkit) createGTT(ctx context.Context, args []string) (string, error) {
	if len(args) < 5 || len(args) > 6 {
		return "", usageError("gtt create <symbol> <quantity> <single|two-leg> <ltp> <trigger> [trigger]")
	}
	quantity, err := parseInt("quantity", args[1])
	if err != nil {
		return "", err
	}
	ltp, err := parseFloat("ltp", args[3])
	if err != nil {
		return "", err
	}
	var triggers []float64
	for _, raw := range args[4:] {
		price, err := parseFloat("trigger", raw)
		if err != nil {
			return "", err
		}
		triggers = append(triggers, price)
	}

	order := types.Order{
		Symbol:        strings.ToUpper(args[0]),
		Quantity:      int(quantity),
		Type:          args[2],
		TriggerPrices: triggers,
	}
	id, err := t.Kite.CreateGTT(ctx, order, ltp)
	if err != nil {
		return "", errors.Wrap(err, "command gtt create")
	}
	return fmt.Sprintf("GTT %d created for %s at %s.", id, order.Symbol, helpers.FormatPrices(triggers)), nil
}

func formatOrders(orderMap types.OrderMap) string {
	if len(orderMap) == 0 {
		return "No active GTT orders."
	}

	symbols := make([]string, 0, len(orderMap))
	for symbol := range orderMap {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var sb strings.Builder
	for _, symbol := range symbols {
		for _, o := range orderMap[symbol] {
			fmt.Fprintf(&sb, "%-12s %-8s %6d  qty %s  @ %s\n", symbol, o.Type, o.ID, helpers.FormatCount(o.Quantity), helpers.FormatPrices(o.TriggerPrices))
		}
	}
	fmt.Fprintf(&sb, "%s orders across %s symbols", helpers.FormatCount(orderMap.Count()), helpers.FormatCount(len(orderMap)))
	return sb.String()
}
