package http

import (
	"time"

	"fastship/internal/core/application/usecases/queries"
	"fastship/internal/core/domain/model/kernel"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Request bodies.
type (
	SignUpSellerRequest struct {
		Name     string              `json:"name"`
		Email    openapi_types.Email `json:"email"`
		Password string              `json:"password"`
		Address  string              `json:"address"`
		ZipCode  int                 `json:"zip_code"`
	}

	SignUpPartnerRequest struct {
		Name                string              `json:"name"`
		Email               openapi_types.Email `json:"email"`
		Password            string              `json:"password"`
		ServiceableZipCodes []int               `json:"serviceable_zip_codes"`
		MaxHandlingCapacity int                 `json:"max_handling_capacity"`
	}

	LogInRequest struct {
		Email    openapi_types.Email `json:"email"`
		Password string              `json:"password"`
	}

	ForgotPasswordRequest struct {
		Email openapi_types.Email `json:"email"`
	}

	ResetPasswordRequest struct {
		Password string `json:"password"`
	}

	UpdatePartnerRequest struct {
		ServiceableZipCodes *[]int `json:"serviceable_zip_codes,omitempty"`
		MaxHandlingCapacity *int   `json:"max_handling_capacity,omitempty"`
	}

	CreateShipmentRequest struct {
		Content            string              `json:"content"`
		Weight             decimal.Decimal     `json:"weight"`
		Destination        int                 `json:"destination"`
		ClientContactEmail openapi_types.Email `json:"client_contact_email"`
		ClientContactPhone *string             `json:"client_contact_phone,omitempty"`
		EstimatedDelivery  *time.Time          `json:"estimated_delivery,omitempty"`
	}

	UpdateShipmentRequest struct {
		Status            string     `json:"status"`
		EstimatedDelivery *time.Time `json:"estimated_delivery"`
		Location          *int       `json:"location,omitempty"`
		Description       *string    `json:"description,omitempty"`
		VerificationCode  *string    `json:"verification_code,omitempty"`
	}

	UpdateShipmentPartialRequest struct {
		Status            *string    `json:"status,omitempty"`
		Location          *int       `json:"location,omitempty"`
		Description       *string    `json:"description,omitempty"`
		VerificationCode  *string    `json:"verification_code,omitempty"`
		EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	}

	ReviewRequest struct {
		Rating  int     `json:"rating"`
		Comment *string `json:"comment,omitempty"`
	}
)

// Parameters bound from the query string.
type (
	TokenParams struct {
		Token string `json:"token"`
	}

	TagParams struct {
		TagName string `json:"tag_name"`
	}

	ListShipmentsParams struct {
		Page *int `json:"page,omitempty"`
		Size *int `json:"size,omitempty"`
	}
)

// Response bodies.
type (
	AccountResponse struct {
		ID    openapi_types.UUID `json:"id"`
		Name  string             `json:"name"`
		Email string             `json:"email"`
	}

	TokenResponse struct {
		AccessToken string    `json:"access_token"`
		Type        string    `json:"type"`
		ExpiresAt   time.Time `json:"expires_at"`
	}

	PartnerResponse struct {
		ID                  openapi_types.UUID `json:"id"`
		Name                string             `json:"name"`
		ServiceableZipCodes []int              `json:"serviceable_zip_codes"`
		MaxHandlingCapacity int                `json:"max_handling_capacity"`
		ActiveShipments     int                `json:"active_shipments"`
		ResidualCapacity    int                `json:"residual_capacity"`
	}

	PartyResponse struct {
		ID   openapi_types.UUID `json:"id"`
		Name string             `json:"name"`
	}

	ShipmentEventResponse struct {
		ID          openapi_types.UUID `json:"id"`
		Status      string             `json:"status"`
		Location    int                `json:"location"`
		Description string             `json:"description"`
		CreatedAt   time.Time          `json:"created_at"`
	}

	TagResponse struct {
		Name        string `json:"name"`
		Instruction string `json:"instruction"`
	}

	ReviewResponse struct {
		Rating    int       `json:"rating"`
		Comment   *string   `json:"comment,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	ShipmentResponse struct {
		ID                 openapi_types.UUID      `json:"id"`
		Content            string                  `json:"content"`
		Weight             decimal.Decimal         `json:"weight"`
		Destination        int                     `json:"destination"`
		ClientContactEmail string                  `json:"client_contact_email"`
		ClientContactPhone *string                 `json:"client_contact_phone,omitempty"`
		Status             string                  `json:"status"`
		CreatedAt          time.Time               `json:"created_at"`
		EstimatedDelivery  time.Time               `json:"estimated_delivery"`
		Seller             PartyResponse           `json:"seller"`
		SellerZipCode      int                     `json:"seller_zip_code"`
		DeliveryPartner    PartyResponse           `json:"delivery_partner"`
		Timeline           []ShipmentEventResponse `json:"timeline"`
		Tags               []TagResponse           `json:"tags"`
		Review             *ReviewResponse         `json:"review,omitempty"`
	}

	ShipmentSummaryResponse struct {
		ID                openapi_types.UUID `json:"id"`
		Content           string             `json:"content"`
		Weight            decimal.Decimal    `json:"weight"`
		Destination       int                `json:"destination"`
		Status            string             `json:"status"`
		CreatedAt         time.Time          `json:"created_at"`
		EstimatedDelivery time.Time          `json:"estimated_delivery"`
		SellerID          openapi_types.UUID `json:"seller_id"`
		DeliveryPartnerID openapi_types.UUID `json:"delivery_partner_id"`
	}
)

func toZipInts(zips []kernel.ZipCode) []int {
	out := make([]int, len(zips))
	for i, z := range zips {
		out[i] = z.Int()
	}
	return out
}

func toPartnerResponse(p queries.ListPartnersQueryResponse) PartnerResponse {
	return PartnerResponse{
		ID:                  p.ID.Bytes(),
		Name:                p.Name,
		ServiceableZipCodes: toZipInts(p.ServiceableZipCodes),
		MaxHandlingCapacity: p.MaxHandlingCapacity,
		ActiveShipments:     p.ActiveShipments,
		ResidualCapacity:    p.ResidualCapacity,
	}
}

func toShipmentResponse(s queries.GetShipmentQueryResponse) ShipmentResponse {
	timeline := make([]ShipmentEventResponse, len(s.Timeline))
	for i, e := range s.Timeline {
		timeline[i] = ShipmentEventResponse{
			ID:          e.ID.Bytes(),
			Status:      e.Status.String(),
			Location:    e.Location.Int(),
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		}
	}

	tags := make([]TagResponse, len(s.Tags))
	for i, t := range s.Tags {
		tags[i] = TagResponse{Name: t.Name.String(), Instruction: t.Instruction}
	}

	var review *ReviewResponse
	if s.Review != nil {
		review = &ReviewResponse{Rating: s.Review.Rating, Comment: s.Review.Comment, CreatedAt: s.Review.CreatedAt}
	}

	return ShipmentResponse{
		ID:                 s.ID.Bytes(),
		Content:            s.Content,
		Weight:             s.Weight,
		Destination:        s.Destination.Int(),
		ClientContactEmail: s.ClientEmail,
		ClientContactPhone: s.ClientPhone,
		Status:             s.Status.String(),
		CreatedAt:          s.CreatedAt,
		EstimatedDelivery:  s.EstimatedDelivery,
		Seller:             PartyResponse{ID: s.Seller.ID.Bytes(), Name: s.Seller.Name},
		SellerZipCode:      s.SellerZipCode.Int(),
		DeliveryPartner:    PartyResponse{ID: s.DeliveryPartner.ID.Bytes(), Name: s.DeliveryPartner.Name},
		Timeline:           timeline,
		Tags:               tags,
		Review:             review,
	}
}

func toShipmentSummary(s queries.ShipmentSummary) ShipmentSummaryResponse {
	return ShipmentSummaryResponse{
		ID:                s.ID.Bytes(),
		Content:           s.Content,
		Weight:            s.Weight,
		Destination:       s.Destination.Int(),
		Status:            s.Status.String(),
		CreatedAt:         s.CreatedAt,
		EstimatedDelivery: s.EstimatedDelivery,
		SellerID:          s.SellerID.Bytes(),
		DeliveryPartnerID: s.DeliveryPartnerID.Bytes(),
	}
}
