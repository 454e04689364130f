package listener

import (
	"invoiceservice/internal/domain"
	"invoiceservice/internal/infrastructure/async"
)

// Register wires both listeners onto the bus. Must run during startup,
// before the first publish is expected to have full effect.
func Register(bus *async.EventBus, created *InvoiceCreated, statusChanged *InvoiceStatusChanged) {
	bus.Register(domain.EventInvoiceCreated, created.Handle)
	bus.Register(domain.EventInvoiceStatusChanged, statusChanged.Handle)
}
