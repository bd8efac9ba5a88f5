package payment

import (
	"fmt"
	"strings"
	"time"

	"pharmabook/models"
	"pharmabook/utils"

	"github.com/google/uuid"
)

// BuildInvoice assembles the invoice record for a paid order.
func BuildInvoice(ord *models.Order, currency string) models.Invoice {
	return models.Invoice{
		InvoiceID: uuid.New().String(),
		OrderID:   ord.ID,
		Reference: ord.Reference,
		UserID:    ord.UserID,
		Lines:     ord.Meta.Lines,
		Subtotal:  ord.Meta.Subtotal,
		Delivery:  ord.Meta.DeliveryFee,
		Total:     ord.Meta.Total,
		Currency:  currency,
		Status:    "paid",
		CreatedAt: time.Now(),
	}
}

// RenderInvoiceText renders the plain-text invoice attached to the
// confirmation email.
func RenderInvoiceText(inv models.Invoice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INVOICE %s\n", inv.InvoiceID)
	fmt.Fprintf(&b, "Order reference: %s\n", inv.Reference)
	fmt.Fprintf(&b, "Date: %s\n\n", inv.CreatedAt.Format("2 January 2006"))

	for _, line := range inv.Lines {
		name := line.Name
		if line.Variation != "" {
			name += " (" + line.Variation + ")"
		}
		fmt.Fprintf(&b, "%-40s x%-3d %12s\n", name, line.Quantity,
			utils.FormatAmount(line.LineTotal, inv.Currency))
	}

	b.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&b, "%-45s %12s\n", "Subtotal", utils.FormatAmount(inv.Subtotal, inv.Currency))
	if inv.Delivery > 0 {
		fmt.Fprintf(&b, "%-45s %12s\n", "Delivery", utils.FormatAmount(inv.Delivery, inv.Currency))
	}
	fmt.Fprintf(&b, "%-45s %12s\n", "Total paid", utils.FormatAmount(inv.Total, inv.Currency))
	return b.String()
}
