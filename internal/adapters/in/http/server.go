package http

import (
	"context"
	"fmt"
	"time"

	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/application/usecases/queries"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CommandHandler runs one state changing operation.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// QueryHandler runs one operation that returns a result.
type QueryHandler[Q, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// Handlers are the use cases behind the API.
type Handlers struct {
	SignUpSeller         CommandHandler[commands.SignUpSellerCommand]
	SignUpPartner        CommandHandler[commands.SignUpPartnerCommand]
	LogIn                QueryHandler[commands.LogInCommand, ports.AccessToken]
	LogOut               CommandHandler[commands.LogOutCommand]
	VerifyEmail          CommandHandler[commands.VerifyEmailCommand]
	RequestPasswordReset CommandHandler[commands.RequestPasswordResetCommand]
	ResetPassword        CommandHandler[commands.ResetPasswordCommand]
	UpdatePartner        CommandHandler[commands.UpdatePartnerCommand]

	CreateShipment        CommandHandler[commands.CreateShipmentCommand]
	UpdateShipment        CommandHandler[commands.UpdateShipmentCommand]
	UpdateShipmentPartial CommandHandler[commands.UpdateShipmentPartialCommand]
	CancelShipment        CommandHandler[commands.CancelShipmentCommand]
	DeleteShipment        CommandHandler[commands.DeleteShipmentCommand]
	RateShipment          CommandHandler[commands.RateShipmentCommand]
	AddShipmentTag        CommandHandler[commands.AddShipmentTagCommand]
	RemoveShipmentTag     CommandHandler[commands.RemoveShipmentTagCommand]

	GetShipment   QueryHandler[queries.GetShipmentQuery, queries.GetShipmentQueryResponse]
	ListShipments QueryHandler[queries.ListShipmentsQuery, queries.ListShipmentsQueryResponse]
	ListPartners  QueryHandler[queries.ListPartnersQuery, []queries.ListPartnersQueryResponse]
}

// Server implements ServerInterface on top of the use cases. It translates transport
// values into commands and results into response bodies; errors are left to ErrorHandler.
type Server struct {
	h Handlers
}

var _ ServerInterface = (*Server)(nil)

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return errs.NewBadRequestError("invalid request body")
	}
	return nil
}

func toUUID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func (s *Server) SignUpSeller(c echo.Context) error {
	var req SignUpSellerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	email, err := kernel.NewEmail(string(req.Email))
	if err != nil {
		return err
	}
	zipCode, err := kernel.NewZipCode(req.ZipCode)
	if err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewSignUpSellerCommand(id, req.Name, email, req.Password, req.Address, zipCode)
	if err != nil {
		return err
	}
	if err := s.h.SignUpSeller.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return created(c, "seller created successfully", AccountResponse{ID: id.Bytes(), Name: cmd.Name(), Email: email.String()})
}

func (s *Server) SignUpPartner(c echo.Context) error {
	var req SignUpPartnerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	email, err := kernel.NewEmail(string(req.Email))
	if err != nil {
		return err
	}
	zipCodes, err := kernel.NewZipCodes(req.ServiceableZipCodes)
	if err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewSignUpPartnerCommand(id, req.Name, email, req.Password, zipCodes, req.MaxHandlingCapacity)
	if err != nil {
		return err
	}
	if err := s.h.SignUpPartner.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return created(c, "partner created successfully", AccountResponse{ID: id.Bytes(), Name: cmd.Name(), Email: email.String()})
}

func (s *Server) LogInSeller(c echo.Context) error  { return s.logIn(c, services.RoleSeller) }
func (s *Server) LogInPartner(c echo.Context) error { return s.logIn(c, services.RolePartner) }

func (s *Server) logIn(c echo.Context, role services.Role) error {
	var req LogInRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	email, err := kernel.NewEmail(string(req.Email))
	if err != nil {
		return errs.ErrBadCredentials
	}
	cmd, err := commands.NewLogInCommand(role, email, req.Password)
	if err != nil {
		return err
	}

	token, err := s.h.LogIn.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, "logged in successfully", TokenResponse{AccessToken: token.Token, Type: "jwt", ExpiresAt: token.ExpiresAt})
}

func (s *Server) VerifySeller(c echo.Context, params TokenParams) error {
	return s.verify(c, services.RoleSeller, params)
}

func (s *Server) VerifyPartner(c echo.Context, params TokenParams) error {
	return s.verify(c, services.RolePartner, params)
}

func (s *Server) verify(c echo.Context, role services.Role, params TokenParams) error {
	cmd, err := commands.NewVerifyEmailCommand(role, params.Token)
	if err != nil {
		return err
	}
	if err := s.h.VerifyEmail.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, "email verified successfully", nil)
}

func (s *Server) ForgotSellerPassword(c echo.Context) error {
	return s.forgotPassword(c, services.RoleSeller)
}

func (s *Server) ForgotPartnerPassword(c echo.Context) error {
	return s.forgotPassword(c, services.RolePartner)
}

// forgotPassword answers the same way whether or not the address is registered.
func (s *Server) forgotPassword(c echo.Context, role services.Role) error {
	var req ForgotPasswordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	email, err := kernel.NewEmail(string(req.Email))
	if err != nil {
		return err
	}
	cmd, err := commands.NewRequestPasswordResetCommand(role, email)
	if err != nil {
		return err
	}
	if err := s.h.RequestPasswordReset.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, "if the address is registered, a reset link has been sent", nil)
}

func (s *Server) ResetSellerPassword(c echo.Context, params TokenParams) error {
	return s.resetPassword(c, services.RoleSeller, params)
}

func (s *Server) ResetPartnerPassword(c echo.Context, params TokenParams) error {
	return s.resetPassword(c, services.RolePartner, params)
}

func (s *Server) resetPassword(c echo.Context, role services.Role, params TokenParams) error {
	var req ResetPasswordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewResetPasswordCommand(role, params.Token, req.Password)
	if err != nil {
		return err
	}
	if err := s.h.ResetPassword.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, "password updated successfully", nil)
}

func (s *Server) LogOutSeller(c echo.Context) error  { return s.logOut(c) }
func (s *Server) LogOutPartner(c echo.Context) error { return s.logOut(c) }

func (s *Server) logOut(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewLogOutCommand(claims.JTI, claims.ExpiresAt)
	if err != nil {
		return err
	}
	if err := s.h.LogOut.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, "logged out successfully", nil)
}

func (s *Server) UpdatePartner(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req UpdatePartnerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	var zipCodes *[]kernel.ZipCode
	if req.ServiceableZipCodes != nil {
		parsed, err := kernel.NewZipCodes(*req.ServiceableZipCodes)
		if err != nil {
			return err
		}
		zipCodes = &parsed
	}

	cmd, err := commands.NewUpdatePartnerCommand(claims.Subject.ID, zipCodes, req.MaxHandlingCapacity)
	if err != nil {
		return err
	}
	if err := s.h.UpdatePartner.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	partners, err := s.h.ListPartners.Handle(c.Request().Context(), queries.NewListPartnersQuery())
	if err != nil {
		return err
	}
	for _, p := range partners {
		if p.ID.IsEqual(claims.Subject.ID) {
			return ok(c, "partner updated successfully", toPartnerResponse(p))
		}
	}
	return errs.NewObjectNotFoundError("partner", claims.Subject.ID)
}

func (s *Server) ListPartners(c echo.Context) error {
	partners, err := s.h.ListPartners.Handle(c.Request().Context(), queries.NewListPartnersQuery())
	if err != nil {
		return err
	}

	response := make([]PartnerResponse, len(partners))
	for i, p := range partners {
		response[i] = toPartnerResponse(p)
	}
	return ok(c, "partners retrieved successfully", response)
}

func (s *Server) ListShipments(c echo.Context, params ListShipmentsParams) error {
	pageNumber, size := 1, queries.DefaultPageSize
	if params.Page != nil {
		pageNumber = *params.Page
	}
	if params.Size != nil {
		size = *params.Size
	}

	query, err := queries.NewListShipmentsQuery(pageNumber, size)
	if err != nil {
		return err
	}
	result, err := s.h.ListShipments.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]ShipmentSummaryResponse, len(result.Shipments))
	for i, summary := range result.Shipments {
		response[i] = toShipmentSummary(summary)
	}
	return page(c, "shipments retrieved successfully", response, Pagination{
		Page:      result.Page,
		Size:      result.Size,
		TotalData: result.Total,
	})
}

func (s *Server) CreateShipment(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req CreateShipmentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	clientEmail, err := kernel.NewEmail(string(req.ClientContactEmail))
	if err != nil {
		return err
	}
	destination, err := kernel.NewZipCode(req.Destination)
	if err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewCreateShipmentCommand(id, claims.Subject.ID, shipment.Details{
		Content:           req.Content,
		Weight:            req.Weight,
		Destination:       destination,
		ClientEmail:       clientEmail,
		ClientPhone:       req.ClientContactPhone,
		EstimatedDelivery: req.EstimatedDelivery,
	})
	if err != nil {
		return err
	}
	if err := s.h.CreateShipment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	view, err := s.shipmentView(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return created(c, "shipment placed successfully", view)
}

func (s *Server) GetShipment(c echo.Context, rawID openapi_types.UUID) error {
	id, err := toUUID(rawID)
	if err != nil {
		return err
	}

	view, err := s.shipmentView(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, "shipment retrieved successfully", view)
}

func (s *Server) UpdateShipment(c echo.Context, rawID openapi_types.UUID) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := toUUID(rawID)
	if err != nil {
		return err
	}

	var req UpdateShipmentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	status, err := shipment.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	var eta time.Time
	if req.EstimatedDelivery != nil {
		eta = *req.EstimatedDelivery
	}
	location, err := optionalZipCode(req.Location)
	if err != nil {
		return err
	}

	var code string
	if req.VerificationCode != nil {
		code = *req.VerificationCode
	}

	cmd, err := commands.NewUpdateShipmentCommand(id, claims.Subject.ID, shipment.FullUpdate{
		Status:            status,
		EstimatedDelivery: eta,
		Location:          location,
		Description:       req.Description,
	}, code)
	if err != nil {
		return err
	}
	if err := s.h.UpdateShipment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondShipment(c, id, "shipment updated successfully")
}

func (s *Server) UpdateShipmentPartial(c echo.Context, rawID openapi_types.UUID) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := toUUID(rawID)
	if err != nil {
		return err
	}

	var req UpdateShipmentPartialRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	update := shipment.PartialUpdate{
		Description:       req.Description,
		EstimatedDelivery: req.EstimatedDelivery,
	}
	if req.Status != nil {
		status, err := shipment.ParseStatus(*req.Status)
		if err != nil {
			return err
		}
		update.Status = &status
	}
	if update.Location, err = optionalZipCode(req.Location); err != nil {
		return err
	}
	var code string
	if req.VerificationCode != nil {
		code = *req.VerificationCode
	}

	cmd, err := commands.NewUpdateShipmentPartialCommand(id, claims.Subject.ID, update, code)
	if err != nil {
		return err
	}
	if err := s.h.UpdateShipmentPartial.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondShipment(c, id, "shipment updated successfully")
}

func (s *Server) DeleteShipment(c echo.Context, rawID openapi_types.UUID) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := toUUID(rawID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteShipmentCommand(id, claims.Subject.ID)
	if err != nil {
		return err
	}
	if err := s.h.DeleteShipment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, fmt.Sprintf("shipment with id %s deleted", id), nil)
}

func (s *Server) CancelShipment(c echo.Context, rawID openapi_types.UUID) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := toUUID(rawID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelShipmentCommand(id, claims.Subject.ID)
	if err != nil {
		return err
	}
	if err := s.h.CancelShipment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondShipment(c, id, "shipment cancelled successfully")
}

func (s *Server) RateShipment(c echo.Context, params TokenParams) error {
	var req ReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRateShipmentCommand(params.Token, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	if err := s.h.RateShipment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return created(c, "thank you for your review", nil)
}

func (s *Server) AddShipmentTag(c echo.Context, rawID openapi_types.UUID, params TagParams) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := toUUID(rawID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAddShipmentTagCommand(id, claims.Subject.ID, params.TagName)
	if err != nil {
		return err
	}
	if err := s.h.AddShipmentTag.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondShipment(c, id, "tag added successfully")
}

func (s *Server) RemoveShipmentTag(c echo.Context, rawID openapi_types.UUID, params TagParams) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := toUUID(rawID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRemoveShipmentTagCommand(id, claims.Subject.ID, params.TagName)
	if err != nil {
		return err
	}
	if err := s.h.RemoveShipmentTag.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondShipment(c, id, "tag removed successfully")
}

func (s *Server) respondShipment(c echo.Context, id kernel.UUID, message string) error {
	view, err := s.shipmentView(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, message, view)
}

func (s *Server) shipmentView(ctx context.Context, id kernel.UUID) (ShipmentResponse, error) {
	query, err := queries.NewGetShipmentQuery(id)
	if err != nil {
		return ShipmentResponse{}, err
	}
	result, err := s.h.GetShipment.Handle(ctx, query)
	if err != nil {
		return ShipmentResponse{}, err
	}
	return toShipmentResponse(result), nil
}

func optionalZipCode(raw *int) (*kernel.ZipCode, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent location
	}
	zipCode, err := kernel.NewZipCode(*raw)
	if err != nil {
		return nil, err
	}
	return &zipCode, nil
}
