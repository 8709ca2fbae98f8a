package commands

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"trading-toolkit/internal/category"
	"trading-toolkit/internal/database"
	"trading-toolkit/internal/investing"
	"trading-toolkit/internal/kite"
	"trading-toolkit/internal/kohan"
)

const usage = `usage:
  alert create <pair_id> <price> <ltp>
  alert delete <alert_id>
  alert list
  search <query>
  gtt list [cached]
  gtt create <symbol> <quantity> <single|two-leg> <ltp> <trigger> [trigger]
  gtt delete <id>
  kohan record <ticker>
  kohan clip
  kohan submap <enable|disable> <name>
  token set <enctoken>
  category <add|remove|toggle> <list> <item>
  category list [list]
  serve`

// ErrUsage wraps every malformed invocation.
var ErrUsage = errors.New(usage)

// Toolkit bundles the clients a command may need.
type Toolkit struct {
	Investing *investing.Client
	Kite      *kite.Client
	Kohan     *kohan.Client
	Lists     *category.Lists
	Store     database.KeyValueStore
}

// Handle runs one command and returns what to print.
func (t *Toolkit) Handle(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrUsage
	}
	log.Debugf("received command: %s", strings.Join(args, " "))

	rest := args[1:]
	switch args[0] {
	case "alert":
		return t.CommandAlert(ctx, rest)
	case "search":
		return t.CommandSearch(ctx, strings.Join(rest, " "))
	case "gtt":
		return t.CommandGTT(ctx, rest)
	case "kohan":
		return t.CommandKohan(ctx, rest)
	case "token":
		return t.CommandToken(rest)
	case "category":
		return t.CommandCategory(rest)
	case "help":
		return usage, nil
	}
	return "", errors.Wrapf(ErrUsage, "unknown command %q", args[0])
}

func usageError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrUsage, format, args...)
}

func parseFloat(name, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, usageError("%s must be a number, got %q", name, value)
	}
	return f, nil
}

func parseInt(name, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, usageError("%s must be an integer, got %q", name, value)
	}
	return n, nil
}
