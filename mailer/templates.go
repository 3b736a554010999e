package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"proudshop/models"
)

// Customer-facing mail is in Albanian, matching the storefront.

var thankYouTmpl = template.Must(template.New("thankyou").Parse(`
<div style='font-family:Arial,sans-serif;font-size:14px;color:#222'>
  <h2>Faleminderit për porosinë tuaj!</h2>
  <p>Pershendetje {{.Name}},</p>
  <p>Ne kemi pranuar porosinë tuaj me numër <strong>{{.OrderNumber}}</strong>.</p>
  <p>Totali: EUR {{.TotalEur}} / LEK {{.TotalLek}}</p>
  <p>Do t'ju njoftojmë sapo statusi të përditësohet.</p>
  <p style='margin-top:20px'>ProudShop</p>
</div>`))

var statusTmpl = template.Must(template.New("status").Parse(`
<div style='font-family:Arial,sans-serif;font-size:14px;color:#222'>
  <h2>Përditësim i Porosisë</h2>
  <p>Përshëndetje {{.Name}},</p>
  <p>{{.Message}}</p>
  <p><strong>Numri i porosisë:</strong> {{.OrderNumber}}</p>
  <p style='margin-top:15px'>ProudShop</p>
</div>`))

var statusSubjects = map[string]string{
	models.OrderStatusPending:    "Porosia #%s është në pritje",
	models.OrderStatusConfirmed:  "Porosia #%s u konfirmua",
	models.OrderStatusProcessing: "Porosia #%s është në proces",
	models.OrderStatusShipped:    "Porosia #%s u nis",
	models.OrderStatusDelivered:  "Porosia #%s u dorëzua",
	models.OrderStatusCancelled:  "Porosia #%s u anulua",
	models.OrderStatusCanceled:   "Porosia #%s u anulua",
	models.OrderStatusPaid:       "Porosia #%s u pagua",
	models.OrderStatusCompleted:  "Porosia #%s u përfundua",
}

var statusBodies = map[string]string{
	models.OrderStatusPending:    "Porosia juaj është regjistruar dhe pret konfirmim.",
	models.OrderStatusConfirmed:  "Porosia juaj u konfirmua dhe do të vazhdojë përpunimin.",
	models.OrderStatusProcessing: "Porosia juaj është marrë në proces dhe po përgatitet.",
	models.OrderStatusShipped:    "Porosia juaj është nisur dhe është në rrugë drejt jush.",
	models.OrderStatusDelivered:  "Porosia juaj është dorëzuar. Shpresojmë të kënaqeni!",
	models.OrderStatusCancelled:  "Porosia juaj është anuluar sipas kërkesës ose për shkak të një problemi.",
	models.OrderStatusCanceled:   "Porosia juaj është anuluar.",
	models.OrderStatusPaid:       "Pagesa u pranua. Faleminderit!",
	models.OrderStatusCompleted:  "Porosia u përfundua me sukses. Faleminderit!",
}

func greetingName(o *models.Order) string {
	if o.ShippingName != nil && *o.ShippingName != "" {
		return *o.ShippingName
	}
	return "Klient"
}

// OrderThankYou renders the confirmation sent right after an order is placed.
func OrderThankYou(o *models.Order) (subject, html string) {
	subject = fmt.Sprintf("Faleminderit për porosinë #%s", o.OrderNumber)
	var buf bytes.Buffer
	err := thankYouTmpl.Execute(&buf, map[string]string{
		"Name":        greetingName(o),
		"OrderNumber": o.OrderNumber,
		"TotalEur":    o.TotalEur.StringFixed(2),
		"TotalLek":    o.TotalLek.StringFixed(2),
	})
	if err != nil {
		return subject, ""
	}
	return subject, buf.String()
}

// OrderStatusUpdate renders the notification for a status transition.
// Unknown statuses fall back to a generic subject and body.
func OrderStatusUpdate(o *models.Order, status string) (subject, html string) {
	subject, ok := statusSubjects[status]
	if ok {
		subject = fmt.Sprintf(subject, o.OrderNumber)
	} else {
		subject = fmt.Sprintf("Përditësim i porosisë #%s", o.OrderNumber)
	}
	message, ok := statusBodies[status]
	if !ok {
		message = fmt.Sprintf("Statusi i porosisë suaj është: %s.", status)
	}

	var buf bytes.Buffer
	err := statusTmpl.Execute(&buf, map[string]string{
		"Name":        greetingName(o),
		"Message":     message,
		"OrderNumber": o.OrderNumber,
	})
	if err != nil {
		return subject, ""
	}
	return subject, buf.String()
}
