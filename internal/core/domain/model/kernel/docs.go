// Package kernel provides the value objects shared by every aggregate of the
// shipment tracking domain.
//
// The package includes:
//   - UUID: identifier of shipments, events, sellers, partners, tags and reviews
//   - ZipCode: postal code used for destinations, scan locations and partner coverage
//   - Email: normalized contact and login address
//
// All value objects are immutable and must be created through their constructors;
// zero values fail Validate.
package kernel
