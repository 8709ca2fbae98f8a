package commands

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// CategoryStoreKey is where list membership is persisted.
const CategoryStoreKey = "categoryLists"

func (t *Toolkit) CommandCategory(args []string) (string, error) {
	if len(args) == 0 {
		return "", usageError("category needs a subcommand")
	}

	if args[0] == "list" {
		return t.listCategories(args[1:])
	}

	if len(args) != 3 {
		return "", usageError("category %s <list> <item>", args[0])
	}
	index, err := parseInt("list", args[1])
	if err != nil {
		return "", err
	}
	item := strings.ToUpper(args[2])

	switch args[0] {
	case "add":
		err = t.Lists.Add(int(index), item)
	case "remove":
		err = t.Lists.Remove(int(index), item)
	case "toggle":
		err = t.Lists.Toggle(int(index), item)
	default:
		return "", usageError("unknown category subcommand %q", args[0])
	}
	if err != nil {
		return "", errors.Wrapf(err, "command category %s", args[0])
	}

	if at, ok := t.Lists.IndexOf(item); ok {
		return fmt.Sprintf("%s is in list %d.", item, at), nil
	}
	return fmt.Sprintf("%s is in no list.", item), nil
}

func (t *Toolkit) listCategories(args []string) (string, error) {
	var indexes []int
	if len(args) > 0 {
		index, err := parseInt("list", args[0])
		if err != nil {
			return "", err
		}
		indexes = append(indexes, int(index))
	} else {
		for i := 0; i < t.Lists.Count(); i++ {
			indexes = append(indexes, i)
		}
	}

	var lines []string
	for _, i := range indexes {
		items, err := t.Lists.List(i)
		if err != nil {
			return "", errors.Wrap(err, "command category list")
		}
		lines = append(lines, fmt.Sprintf("%d: %s", i, strings.Join(items, " ")))
	}
	return strings.Join(lines, "\n"), nil
}
