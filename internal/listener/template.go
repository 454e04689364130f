package listener

import (
	"fmt"
	"time"
)

func invoiceCreatedBody(number string, total float64, date time.Time, status string) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; padding: 20px;">
      <h1 style="color: #333;">New Invoice Created</h1>
      <p>Dear Customer,</p>
      <p>A new invoice <strong>#%s</strong> has been created for you.</p>
      <div style="background: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0;">
        <p><strong>Total Amount:</strong> $%.2f</p>
        <p><strong>Due Date:</strong> %s</p>
        <p><strong>Status:</strong> %s</p>
      </div>
      <p>Please log in to your account to view the full details and make a payment.</p>
      <p>Thank you for your business!</p>
    </div>
  `, number, total, date.Format("1/2/2006"), status)
}

func invoiceOverdueBody(invoiceID string) string {
	return fmt.Sprintf("<p>Your invoice #%s is now OVERDUE. Please pay immediately.</p>", invoiceID)
}
