// Package services holds domain services that work across aggregates:
//
//   - PartnerAssigner: first-fit selection of a delivery partner for a new shipment
//   - AuthorizationGate: ownership rules deciding which seller or partner may mutate a shipment
package services
