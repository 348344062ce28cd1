// Package pricing derives cart totals from cart lines.
package pricing

import (
	"strings"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold = decimal.NewFromInt(100)
	// ShippingFee is the flat fee charged at or below the threshold.
	ShippingFee = decimal.NewFromInt(10)
	// TaxRate is applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.16")
)

// Totals holds the derived amounts of a cart.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// FormattedTotals holds Totals rendered for display.
type FormattedTotals struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// Calculate computes the totals of items. Lines whose price does not parse
// count as zero. An empty cart has all totals at zero, shipping included.
func Calculate(items []model.CartItem) Totals {
	if len(items) == 0 {
		return Totals{
			Subtotal: decimal.Zero,
			Shipping: decimal.Zero,
			Tax:      decimal.Zero,
			Total:    decimal.Zero,
		}
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(UnitPrice(item.Product).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shipping := ShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(TaxRate)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// UnitPrice parses a product's price. Missing or malformed prices are zero.
func UnitPrice(p model.Product) decimal.Decimal {
	price, err := decimal.NewFromString(strings.TrimSpace(p.Price))
	if err != nil {
		return decimal.Zero
	}
	return price
}

// Formatted renders every amount with FormatPrice.
func (t Totals) Formatted() FormattedTotals {
	return FormattedTotals{
		Subtotal: FormatPrice(t.Subtotal),
		Shipping: FormatPrice(t.Shipping),
		Tax:      FormatPrice(t.Tax),
		Total:    FormatPrice(t.Total),
	}
}

var printer = message.NewPrinter(language.Spanish)

// groupingMinimum is the smallest absolute amount es-ES writes with
// thousands separators: four-digit amounts stay ungrouped.
var groupingMinimum = decimal.NewFromInt(10000)

// FormatPrice renders amount as a Spanish-locale euro price with two
// decimals, e.g. "1876,88 €" and "12.345,67 €".
func FormatPrice(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	s := printer.Sprintf("%.2f", rounded.InexactFloat64())
	if rounded.Abs().LessThan(groupingMinimum) {
		s = strings.ReplaceAll(s, ".", "")
	}
	return s + " €"
}

// Engine keeps the totals of a cart current as it changes.
type Engine struct {
	mu      sync.RWMutex
	current Totals
	updated bool
	stop    func()
}

// NewEngine computes the totals of store and recomputes them on every change.
func NewEngine(store *cart.Store) *Engine {
	e := &Engine{}
	e.stop = store.Subscribe(func(s model.CartState) {
		e.set(Calculate(s.CartItems))
	})

	initial := Calculate(store.Items())
	e.mu.Lock()
	// A change observed meanwhile is at least as new as initial.
	if !e.updated {
		e.current = initial
	}
	e.mu.Unlock()
	return e
}

// Current returns the latest totals.
func (e *Engine) Current() Totals {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Close stops following the store.
func (e *Engine) Close() {
	e.stop()
}

func (e *Engine) set(t Totals) {
	e.mu.Lock()
	e.current = t
	e.updated = true
	e.mu.Unlock()
}
