package commands

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

func (t *Toolkit) CommandKohan(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", usageError("kohan needs a subcommand")
	}

	switch args[0] {
	case "record":
		if len(args) != 2 {
			return "", usageError("kohan record <ticker>")
		}
		if err := t.Kohan.RecordTicker(ctx, args[1]); err != nil {
			return "", errors.Wrap(err, "command kohan record")
		}
		return fmt.Sprintf("Recorded %s.", args[1]), nil
	case "clip":
		clip, err := t.Kohan.GetClip(ctx)
		if err != nil {
			return "", errors.Wrap(err, "command kohan clip")
		}
		return clip, nil
	case "submap":
		if len(args) != 3 {
			return "", usageError("kohan submap <enable|disable> <name>")
		}
		var err error
		switch args[1] {
		case "enable":
			err = t.Kohan.EnableSubmap(ctx, args[2])
		case "disable":
			err = t.Kohan.DisableSubmap(ctx, args[2])
		default:
			return "", usageError("submap action must be enable or disable, got %q", args[1])
		}
		if err != nil {
			return "", errors.Wrap(err, "command kohan submap")
		}
		return fmt.Sprintf("Submap %s %sd.", args[2], args[1]), nil
	}
	return "", usageError("unknown kohan subcommand %q", args[0])
}
