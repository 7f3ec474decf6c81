// Package document renders printable order tickets as plain text. The
// front end handles PDF layout; the API serves the normalized content.
package document

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/fournil-next/internal/models"
)

var ticketTemplate = template.Must(template.New("ticket").Parse(`{{.Separator}}
  BON DE COMMANDE  {{.Order.OrderNumber}}
{{.Separator}}

Client    : {{.Order.CustomerFirstname}} {{.Order.CustomerName}}
Téléphone : {{.Order.CustomerPhone}}
{{- if .Order.CustomerEmail}}
Email     : {{.Order.CustomerEmail}}
{{- end}}
Retrait   : {{.PickupDate}}{{if .ShopName}}
Boutique  : {{.ShopName}}{{end}}
Statut    : {{.Order.Status}}

{{range .Order.Lines -}}
  {{printf "%3d" .Quantity}} x {{.ProductName}}{{if .Customization}} ({{.Customization}}){{end}}  {{.Subtotal}} EUR
{{end}}
{{.Separator}}
  TOTAL : {{.Order.TotalAmount}} EUR
{{.Separator}}
`))

type ticketData struct {
	Order      *models.Order
	PickupDate string
	ShopName   string
	Separator  string
}

// RenderTicket produces the printable ticket for one order.
func RenderTicket(order *models.Order) (string, error) {
	data := ticketData{
		Order:      order,
		PickupDate: order.PickupDate.Format("02/01/2006"),
		Separator:  strings.Repeat("=", 48),
	}
	if order.Shop != nil {
		data.ShopName = order.Shop.Name
	}
	var out bytes.Buffer
	if err := ticketTemplate.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}
