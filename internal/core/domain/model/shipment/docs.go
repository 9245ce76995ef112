// Package shipment contains the Shipment aggregate, its timeline Event entity and the
// Status vocabulary.
//
// A shipment's status is never stored on its own in the domain: it is the status of the
// latest timeline event. Every mutation (Advance, AdvancePartial, Cancel) appends an event,
// except a partial update that only moves the estimated delivery time.
//
//	s, _ := shipment.NewShipment(id, details, sellerID, sellerZip, partnerID, "Swift", now)
//	s.Status()           // placed
//	s.Cancel(now)
//	s.Status()           // cancelled
package shipment
