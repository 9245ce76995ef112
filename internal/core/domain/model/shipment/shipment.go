package shipment

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/review"
	"fastship/internal/core/domain/model/tag"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	contentMaxLength = 100

	// eventClockStep is the minimal spacing between a new event and the latest one. Timestamps
	// are stored with microsecond precision.
	eventClockStep = time.Microsecond

	// DefaultDeliveryWindow is added to the creation time when no estimated delivery is given.
	DefaultDeliveryWindow = 3 * 24 * time.Hour
)

// MaxWeight is the exclusive upper bound of a shipment weight, in kilograms.
var MaxWeight = decimal.NewFromInt(25)

var (
	// ErrShipmentIsNotConstructed is returned when using a Shipment that was not built by a constructor.
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment constructor")
	// ErrTimelineIsRequired is returned when restoring a shipment without events.
	ErrTimelineIsRequired = errs.NewValueIsRequiredError("timeline")
	// ErrShipmentAlreadyReviewed is returned when a second review is submitted.
	ErrShipmentAlreadyReviewed = errors.New("shipment already reviewed")
)

var phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)

// Details are the seller supplied attributes of a shipment.
type Details struct {
	Content     string
	Weight      decimal.Decimal
	Destination kernel.ZipCode
	ClientEmail kernel.Email
	// ClientPhone is optional; when present the delivery code is sent by SMS.
	ClientPhone *string
	// EstimatedDelivery defaults to creation time plus DefaultDeliveryWindow.
	EstimatedDelivery *time.Time
}

// FullUpdate is the payload of Advance. Status and EstimatedDelivery are mandatory.
type FullUpdate struct {
	Status            Status
	EstimatedDelivery time.Time
	Location          *kernel.ZipCode
	Description       *string
}

// PartialUpdate is the payload of AdvancePartial. At least one field must be set.
type PartialUpdate struct {
	Status            *Status
	Location          *kernel.ZipCode
	Description       *string
	EstimatedDelivery *time.Time
}

// IsEmpty reports whether no field is set.
func (u PartialUpdate) IsEmpty() bool {
	return u.Status == nil && u.Location == nil && u.Description == nil && u.EstimatedDelivery == nil
}

// onlyEstimatedDelivery reports whether the update is a pure ETA nudge.
func (u PartialUpdate) onlyEstimatedDelivery() bool {
	return u.EstimatedDelivery != nil && u.Status == nil && u.Location == nil && u.Description == nil
}

// Shipment is the aggregate root of the tracking domain. It owns its timeline of events,
// its optional review and its tag set.
//
// Invariants:
//   - content is 1..100 characters, weight lies in [0, 25)
//   - the timeline is never empty once constructed: NewShipment appends the placed event
//     and RestoreShipment rejects an empty timeline
//   - the timeline is kept in ascending creation-time order; events with equal timestamps
//     keep their insertion order, so the latest event is always the last element
//   - Status is the status of the latest event
//   - at most one review
//
// Events appended since the last persistence are available through NewEvents so the
// repository can insert them and the unit of work can publish them.
type Shipment struct {
	id                kernel.UUID
	content           string
	weight            decimal.Decimal
	destination       kernel.ZipCode
	createdAt         time.Time
	estimatedDelivery time.Time
	clientEmail       kernel.Email
	clientPhone       *string
	sellerID          kernel.UUID
	deliveryPartnerID kernel.UUID
	timeline          []*Event
	newEvents         []*Event
	review            *review.Review
	tags              []*tag.Tag
	guard             guard.ConstructorGuard
}

// NewShipment creates a shipment assigned to a partner and appends its initial placed
// event at origin (the seller's zip code). The event description names the partner.
//
// The caller is expected to have picked and claimed the partner already (see
// services.PartnerAssigner); NewShipment only records the assignment.
//
// Parameters:
//   - id: identifier of the new shipment
//   - details: seller supplied attributes; content 1..100 characters, weight in [0, 25),
//     a valid destination and client email, optional phone and estimated delivery
//   - sellerID: the owning seller
//   - origin: location of the placed event
//   - partnerID, partnerName: the assigned delivery partner; a blank name leaves the
//     default description
//   - now: creation time of the shipment and of the placed event
//
// Example:
//
//	s, err := shipment.NewShipment(kernel.NewUUID(), details, seller.ID(), seller.ZipCode(),
//	    assigned.ID(), assigned.Name(), time.Now())
//
// Returns:
//   - A shipment with status placed and the placed event in NewEvents
//   - errs.ErrValueIsRequired, errs.ErrValueIsInvalid or errs.ErrValueIsOutOfRange, joined
//     when several details are wrong
func NewShipment(
	id kernel.UUID,
	details Details,
	sellerID kernel.UUID,
	origin kernel.ZipCode,
	partnerID kernel.UUID,
	partnerName string,
	now time.Time,
) (*Shipment, error) {
	s := &Shipment{
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setDetails(details),
		s.setSellerID(sellerID),
		s.setDeliveryPartnerID(partnerID),
	); err != nil {
		return nil, err
	}

	description := DescribeEvent(StatusPlaced, origin)
	if name := strings.TrimSpace(partnerName); name != "" {
		description += " " + name
	}
	placed, err := NewEvent(kernel.NewUUID(), origin, StatusPlaced, description, now)
	if err != nil {
		return nil, err
	}
	s.appendEvent(placed)

	return s, nil
}

// RestoreShipment rehydrates a persisted shipment. The timeline may arrive in any order;
// it is sorted by creation time and must hold at least one event (ErrTimelineIsRequired).
// Restored events are not reported by NewEvents.
func RestoreShipment(
	id kernel.UUID,
	details Details,
	createdAt time.Time,
	sellerID kernel.UUID,
	partnerID kernel.UUID,
	timeline []*Event,
	rv *review.Review,
	tags []*tag.Tag,
) (*Shipment, error) {
	s := &Shipment{
		createdAt: createdAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setDetails(details),
		s.setSellerID(sellerID),
		s.setDeliveryPartnerID(partnerID),
		s.setTimeline(timeline),
		s.setReview(rv),
		s.setTags(tags),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate ensures the shipment was constructed properly.
func (s *Shipment) Validate() error {
	if s == nil {
		return ErrShipmentIsNotConstructed
	}
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

// IsEqual compares shipments by identifier.
func (s *Shipment) IsEqual(other *Shipment) bool {
	return other != nil && s.id.IsEqual(other.id)
}

func (s *Shipment) ID() kernel.UUID {
	return s.id
}

func (s *Shipment) Content() string {
	return s.content
}

func (s *Shipment) Weight() decimal.Decimal {
	return s.weight
}

func (s *Shipment) Destination() kernel.ZipCode {
	return s.destination
}

func (s *Shipment) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Shipment) EstimatedDelivery() time.Time {
	return s.estimatedDelivery
}

func (s *Shipment) ClientEmail() kernel.Email {
	return s.clientEmail
}

// ClientPhone returns nil when the customer gave no phone number.
func (s *Shipment) ClientPhone() *string {
	if s.clientPhone == nil {
		return nil
	}
	p := *s.clientPhone
	return &p
}

func (s *Shipment) SellerID() kernel.UUID {
	return s.sellerID
}

func (s *Shipment) DeliveryPartnerID() kernel.UUID {
	return s.deliveryPartnerID
}

// Timeline returns the events in ascending creation-time order.
func (s *Shipment) Timeline() []*Event {
	events := make([]*Event, len(s.timeline))
	copy(events, s.timeline)
	return events
}

// LatestEvent returns the most recent event, or nil for an empty timeline.
func (s *Shipment) LatestEvent() *Event {
	if len(s.timeline) == 0 {
		return nil
	}
	return s.timeline[len(s.timeline)-1]
}

// Status is the status of the latest event, StatusUndefined without events.
func (s *Shipment) Status() Status {
	latest := s.LatestEvent()
	if latest == nil {
		return StatusUndefined
	}
	return latest.Status()
}

// Review returns nil until the customer rated the shipment.
func (s *Shipment) Review() *review.Review {
	return s.review
}

// Tags returns the tag set ordered by name.
func (s *Shipment) Tags() []*tag.Tag {
	tags := make([]*tag.Tag, len(s.tags))
	copy(tags, s.tags)
	return tags
}

// HasTag reports whether a tag with this name is attached.
func (s *Shipment) HasTag(name tag.Name) bool {
	for _, t := range s.tags {
		if t.Name() == name {
			return true
		}
	}
	return false
}

// NewEvents returns the events appended since construction or the last MarkEventsPersisted.
func (s *Shipment) NewEvents() []*Event {
	events := make([]*Event, len(s.newEvents))
	copy(events, s.newEvents)
	return events
}

// MarkEventsPersisted clears the NewEvents buffer.
func (s *Shipment) MarkEventsPersisted() {
	s.newEvents = nil
}

// Advance appends an event with the given status and moves the estimated delivery.
// Any recognized status is accepted. Location defaults to the latest event location and
// description to DescribeEvent.
func (s *Shipment) Advance(update FullUpdate, now time.Time) (*Event, error) {
	if err := update.Status.Validate(); err != nil {
		return nil, err
	}
	if update.EstimatedDelivery.IsZero() {
		return nil, errs.NewValueIsRequiredError("estimated delivery")
	}

	event, err := s.newEvent(update.Status, update.Location, update.Description, now)
	if err != nil {
		return nil, err
	}

	s.estimatedDelivery = update.EstimatedDelivery.UTC()
	s.appendEvent(event)
	return event, nil
}

// AdvancePartial applies the provided fields. It appends an event unless the only field set
// is EstimatedDelivery, in which case the returned event is nil. Omitted status and location
// default to those of the latest event. An empty update fails with errs.ErrBadRequest.
func (s *Shipment) AdvancePartial(update PartialUpdate, now time.Time) (*Event, error) {
	if update.IsEmpty() {
		return nil, errs.NewBadRequestError("no fields to update")
	}

	var event *Event
	if !update.onlyEstimatedDelivery() {
		status := s.Status()
		if update.Status != nil {
			status = *update.Status
		}
		if err := status.Validate(); err != nil {
			return nil, err
		}

		var err error
		event, err = s.newEvent(status, update.Location, update.Description, now)
		if err != nil {
			return nil, err
		}
	}

	if update.EstimatedDelivery != nil {
		if update.EstimatedDelivery.IsZero() {
			return nil, errs.NewValueIsRequiredError("estimated delivery")
		}
		s.estimatedDelivery = update.EstimatedDelivery.UTC()
	}
	if event != nil {
		s.appendEvent(event)
	}
	return event, nil
}

// Cancel appends a cancelled event at the latest location. The current status is not checked.
func (s *Shipment) Cancel(now time.Time) (*Event, error) {
	event, err := s.newEvent(StatusCancelled, nil, nil, now)
	if err != nil {
		return nil, err
	}
	s.appendEvent(event)
	return event, nil
}

// AddTag attaches t and reports whether the tag set changed.
func (s *Shipment) AddTag(t *tag.Tag) (bool, error) {
	if err := t.Validate(); err != nil {
		return false, err
	}
	if s.HasTag(t.Name()) {
		return false, nil
	}
	s.tags = append(s.tags, t)
	s.sortTags()
	return true, nil
}

// RemoveTag detaches the tag with this name and reports whether the tag set changed.
func (s *Shipment) RemoveTag(name tag.Name) bool {
	for i, t := range s.tags {
		if t.Name() == name {
			s.tags = append(s.tags[:i:i], s.tags[i+1:]...)
			return true
		}
	}
	return false
}

// Rate attaches the customer's review. A shipment is reviewed at most once.
func (s *Shipment) Rate(rv *review.Review) error {
	if err := rv.Validate(); err != nil {
		return err
	}
	if s.review != nil {
		return ErrShipmentAlreadyReviewed
	}
	if !rv.ShipmentID().IsEqual(s.id) {
		return errs.NewValueIsInvalidErrorWithCause("review", fmt.Errorf("review belongs to shipment %s", rv.ShipmentID()))
	}
	s.review = rv
	return nil
}

// CapacityDelta is the change in a partner's active shipment count caused by a status
// change: -1 when a shipment leaves the active set, +1 when it re-enters it, 0 otherwise.
func CapacityDelta(before, after Status) int {
	switch {
	case before.IsActive() && after.IsTerminal():
		return -1
	case before.IsTerminal() && after.IsActive():
		return 1
	default:
		return 0
	}
}

// newEvent stamps the event strictly after the latest one, so a transition made through the
// aggregate is always the latest event even when now lags behind another instance's clock.
func (s *Shipment) newEvent(status Status, location *kernel.ZipCode, description *string, now time.Time) (*Event, error) {
	loc := s.destination
	if latest := s.LatestEvent(); latest != nil {
		loc = latest.Location()
		if !now.After(latest.CreatedAt()) {
			now = latest.CreatedAt().Add(eventClockStep)
		}
	}
	if location != nil {
		loc = *location
	}

	desc := ""
	if description != nil {
		desc = *description
	}

	return NewEvent(kernel.NewUUID(), loc, status, desc, now)
}

// appendEvent inserts after every event not newer than e, keeping the timeline sorted and stable.
func (s *Shipment) appendEvent(e *Event) {
	i := sort.Search(len(s.timeline), func(i int) bool {
		return s.timeline[i].CreatedAt().After(e.CreatedAt())
	})
	s.timeline = append(s.timeline, nil)
	copy(s.timeline[i+1:], s.timeline[i:])
	s.timeline[i] = e
	s.newEvents = append(s.newEvents, e)
}

func (s *Shipment) sortTags() {
	sort.SliceStable(s.tags, func(i, j int) bool { return s.tags[i].Name() < s.tags[j].Name() })
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setDetails(d Details) error {
	if err := errors.Join(
		s.setContent(d.Content),
		s.setWeight(d.Weight),
		s.setDestination(d.Destination),
		s.setClientEmail(d.ClientEmail),
		s.setClientPhone(d.ClientPhone),
	); err != nil {
		return err
	}

	if d.EstimatedDelivery != nil && !d.EstimatedDelivery.IsZero() {
		s.estimatedDelivery = d.EstimatedDelivery.UTC()
	} else {
		s.estimatedDelivery = s.createdAt.Add(DefaultDeliveryWindow)
	}
	return nil
}

func (s *Shipment) setContent(content string) error {
	content = strings.TrimSpace(content)
	n := len([]rune(content))
	if n == 0 {
		return errs.NewValueIsRequiredError("content")
	}
	if n > contentMaxLength {
		return errs.NewValueIsOutOfRangeError("content length", n, 1, contentMaxLength)
	}
	s.content = content
	return nil
}

func (s *Shipment) setWeight(weight decimal.Decimal) error {
	if weight.IsNegative() || weight.GreaterThanOrEqual(MaxWeight) {
		return errs.NewValueIsOutOfRangeError("weight", weight.String(), 0, "below "+MaxWeight.String())
	}
	s.weight = weight
	return nil
}

func (s *Shipment) setDestination(zip kernel.ZipCode) error {
	if err := zip.Validate(); err != nil {
		return err
	}
	s.destination = zip
	return nil
}

func (s *Shipment) setClientEmail(email kernel.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	s.clientEmail = email
	return nil
}

func (s *Shipment) setClientPhone(phone *string) error {
	if phone == nil {
		return nil
	}
	normalized := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(*phone))
	if normalized == "" {
		return nil
	}
	if !phonePattern.MatchString(normalized) {
		return errs.NewValueIsInvalidErrorWithCause("client phone", fmt.Errorf("%q is not a phone number", *phone))
	}
	s.clientPhone = &normalized
	return nil
}

func (s *Shipment) setSellerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.sellerID = id
	return nil
}

func (s *Shipment) setDeliveryPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.deliveryPartnerID = id
	return nil
}

func (s *Shipment) setTimeline(events []*Event) error {
	if len(events) == 0 {
		return ErrTimelineIsRequired
	}
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
		s.appendEvent(e)
	}
	s.newEvents = nil
	return nil
}

func (s *Shipment) setReview(rv *review.Review) error {
	if rv == nil {
		return nil
	}
	if err := rv.Validate(); err != nil {
		return err
	}
	s.review = rv
	return nil
}

func (s *Shipment) setTags(tags []*tag.Tag) error {
	for _, t := range tags {
		if _, err := s.AddTag(t); err != nil {
			return err
		}
	}
	return nil
}
