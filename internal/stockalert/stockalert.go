// Package stockalert decides when a product's stock level warrants a warning.
package stockalert

import "github.com/Priyansh-03/Vyapar-Sahayak/internal/model"

// Level is the severity of a stock alert
type Level string

const (
	None       Level = ""
	LowStock   Level = "low_stock"
	OutOfStock Level = "out_of_stock"
)

// Alert describes a product whose stock needs attention
type Alert struct {
	Level       Level  `json:"level"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Threshold   int    `json:"threshold"`
}

// Threshold returns the product's own threshold if set, else the global one
func Threshold(p model.Product, global int) int {
	if p.MinStockThreshold != nil {
		return *p.MinStockThreshold
	}
	return global
}

// Evaluate returns the current alert level of p
func Evaluate(p model.Product, global int) Level {
	threshold := Threshold(p, global)
	switch {
	case p.Quantity <= 0:
		return OutOfStock
	case threshold > 0 && p.Quantity < threshold:
		return LowStock
	default:
		return None
	}
}

// Crossed returns the alert raised by p's quantity moving from prev, or false
// if the alert was already active before. A nil prev means the previous level
// is unknown and any active alert is reported.
func Crossed(prev *int, p model.Product, global int) (Alert, bool) {
	level := Evaluate(p, global)
	threshold := Threshold(p, global)

	alert := Alert{
		Level:       level,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    p.Quantity,
		Threshold:   threshold,
	}

	switch level {
	case OutOfStock:
		return alert, prev == nil || *prev > 0
	case LowStock:
		return alert, prev == nil || *prev >= threshold || *prev <= 0
	default:
		return Alert{}, false
	}
}

// Active lists the products that currently have an alert
func Active(products []model.Product, global int) []Alert {
	alerts := []Alert{}
	for _, p := range products {
		if a, ok := Crossed(nil, p, global); ok {
			alerts = append(alerts, a)
		}
	}
	return alerts
}
