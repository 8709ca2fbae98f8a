package types

// Alert is a price alert on Investing.com. ID is assigned remotely.
type Alert struct {
	ID     string  `json:"id"`
	Price  float64 `json:"price"`
	PairID string  `json:"pair_id"`
}

// PairInfo is a single symbol search result.
type PairInfo struct {
	Name     string `json:"name"`
	PairID   string `json:"pair_id"`
	Exchange string `json:"exchange"`
	Symbol   string `json:"symbol"`
}

const (
	GTTSingle = "single"
	GTTTwoLeg = "two-leg"
)

// Order is one GTT trigger on Kite.
type Order struct {
	Symbol        string    `json:"symbol"`
	Quantity      int       `json:"quantity"`
	Type          string    `json:"type"` // e.g., "single, two-leg"
	ID            int64     `json:"id"`
	TriggerPrices []float64 `json:"trigger_prices"`
}

// OrderMap groups GTT orders by trading symbol.
type OrderMap map[string][]Order

func (m OrderMap) Add(o Order) {
	m[o.Symbol] = append(m[o.Symbol], o)
}

func (m OrderMap) Count() int {
	n := 0
	for _, orders := range m {
		n += len(orders)
	}
	return n
}
