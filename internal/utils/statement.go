package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Dan9191/finances-service/internal/models"
	"github.com/beevik/etree"
)

// BuildPaymentStatement renders rent payment records as an XML statement
// for accounting exports.
func BuildPaymentStatement(ownerID string, records []models.RentPaymentRecord, generatedAt time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("PaymentStatement")
	root.CreateAttr("owner", ownerID)
	root.CreateAttr("generatedAt", generatedAt.UTC().Format(time.RFC3339))
	root.CreateAttr("count", strconv.Itoa(len(records)))

	for _, rec := range records {
		p := root.CreateElement("Payment")
		p.CreateAttr("id", rec.ID)
		p.CreateAttr("status", string(rec.Status))

		property := p.CreateElement("Property")
		property.CreateAttr("id", rec.PropertyID)
		property.SetText(rec.PropertyTitle)

		tenant := p.CreateElement("Tenant")
		tenant.CreateAttr("id", rec.TenantID)
		tenant.SetText(rec.TenantName)

		p.CreateElement("Amount").SetText(rec.Amount.StringFixed(2))
		p.CreateElement("Month").SetText(rec.Month)
		p.CreateElement("DueDate").SetText(rec.DueDate.Format("2006-01-02"))
		if rec.PaidAt != nil {
			p.CreateElement("PaidAt").SetText(rec.PaidAt.UTC().Format(time.RFC3339))
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render payment statement: %w", err)
	}
	return out, nil
}
