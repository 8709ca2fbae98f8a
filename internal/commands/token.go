package commands

import (
	"github.com/pkg/errors"

	"trading-toolkit/internal/kite"
)

func (t *Toolkit) CommandToken(args []string) (string, error) {
	if len(args) != 2 || args[0] != "set" {
		return "", usageError("token set <enctoken>")
	}
	if err := kite.SetToken(t.Store, args[1]); err != nil {
		return "", errors.Wrap(err, "command token set")
	}
	return "Kite token stored.", nil
}
