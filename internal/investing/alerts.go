package investing

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"trading-toolkit/internal/client"
	"trading-toolkit/internal/types"
)

// ParseAlerts reads alert rows from the alert center page. A row is any
// element carrying data-alert-id; its pair comes from data-pair-id and its
// price from data-value, or from the text of a descendant with class alertValue.
func ParseAlerts(page string) ([]types.Alert, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, &client.ParseError{Message: err.Error()}
	}

	var (
		alerts []types.Alert
		walk   func(n *html.Node) error
	)
	walk = func(n *html.Node) error {
		if n.Type == html.ElementNode {
			if id, ok := attr(n, "data-alert-id"); ok {
				alert, err := alertFromRow(n, id)
				if err != nil {
					return err
				}
				alerts = append(alerts, alert)
				return nil
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(doc); err != nil {
		return nil, err
	}
	return alerts, nil
}

func alertFromRow(row *html.Node, id string) (types.Alert, error) {
	pairID, _ := attr(row, "data-pair-id")

	raw, ok := attr(row, "data-value")
	if !ok {
		if cell := findByClass(row, "alertValue"); cell != nil {
			raw = textOf(cell)
		}
	}
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return types.Alert{}, errors.Wrapf(&client.ParseError{Message: err.Error()}, "alert %s has no readable price", id)
	}
	return types.Alert{ID: id, Price: price, PairID: pairID}, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func findByClass(n *html.Node, class string) *html.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			if classes, ok := attr(child, "class"); ok {
				for _, c := range strings.Fields(classes) {
					if c == class {
						return child
					}
				}
			}
		}
		if found := findByClass(child, class); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return sb.String()
}
