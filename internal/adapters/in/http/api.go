package http

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// This file is kept by hand in the shape oapi-codegen generates for echo servers.
// Every route registered here must also be described in openapi.json.

// ServerInterface lists every operation of the API document.
type ServerInterface interface {
	// (POST /api/v1/sellers/signup)
	SignUpSeller(ctx echo.Context) error
	// (POST /api/v1/sellers/token)
	LogInSeller(ctx echo.Context) error
	// (GET /api/v1/sellers/verify)
	VerifySeller(ctx echo.Context, params TokenParams) error
	// (POST /api/v1/sellers/forgot_password)
	ForgotSellerPassword(ctx echo.Context) error
	// (POST /api/v1/sellers/reset_password)
	ResetSellerPassword(ctx echo.Context, params TokenParams) error
	// (GET /api/v1/sellers/logout)
	LogOutSeller(ctx echo.Context) error

	// (POST /api/v1/partners/signup)
	SignUpPartner(ctx echo.Context) error
	// (POST /api/v1/partners/token)
	LogInPartner(ctx echo.Context) error
	// (GET /api/v1/partners/verify)
	VerifyPartner(ctx echo.Context, params TokenParams) error
	// (POST /api/v1/partners/forgot_password)
	ForgotPartnerPassword(ctx echo.Context) error
	// (POST /api/v1/partners/reset_password)
	ResetPartnerPassword(ctx echo.Context, params TokenParams) error
	// (GET /api/v1/partners/logout)
	LogOutPartner(ctx echo.Context) error
	// (PATCH /api/v1/partners/me)
	UpdatePartner(ctx echo.Context) error
	// (GET /api/v1/partners)
	ListPartners(ctx echo.Context) error

	// (GET /api/v1/shipments)
	ListShipments(ctx echo.Context, params ListShipmentsParams) error
	// (POST /api/v1/shipments)
	CreateShipment(ctx echo.Context) error
	// (POST /api/v1/shipments/review)
	RateShipment(ctx echo.Context, params TokenParams) error
	// (GET /api/v1/shipments/{id})
	GetShipment(ctx echo.Context, id openapi_types.UUID) error
	// (PUT /api/v1/shipments/{id})
	UpdateShipment(ctx echo.Context, id openapi_types.UUID) error
	// (PATCH /api/v1/shipments/{id})
	UpdateShipmentPartial(ctx echo.Context, id openapi_types.UUID) error
	// (DELETE /api/v1/shipments/{id})
	DeleteShipment(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/shipments/{id}/cancel)
	CancelShipment(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/shipments/{id}/tags)
	AddShipmentTag(ctx echo.Context, id openapi_types.UUID, params TagParams) error
	// (DELETE /api/v1/shipments/{id}/tags)
	RemoveShipmentTag(ctx echo.Context, id openapi_types.UUID, params TagParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) bindID(ctx echo.Context) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

func bindToken(ctx echo.Context) (TokenParams, error) {
	var params TokenParams
	if err := runtime.BindQueryParameter("form", true, true, "token", ctx.QueryParams(), &params.Token); err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter token: %s", err))
	}
	return params, nil
}

func bindTag(ctx echo.Context) (TagParams, error) {
	var params TagParams
	if err := runtime.BindQueryParameter("form", true, true, "tag_name", ctx.QueryParams(), &params.TagName); err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter tag_name: %s", err))
	}
	return params, nil
}

func (w *ServerInterfaceWrapper) VerifySeller(ctx echo.Context) error {
	params, err := bindToken(ctx)
	if err != nil {
		return err
	}
	return w.Handler.VerifySeller(ctx, params)
}

func (w *ServerInterfaceWrapper) ResetSellerPassword(ctx echo.Context) error {
	params, err := bindToken(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ResetSellerPassword(ctx, params)
}

func (w *ServerInterfaceWrapper) VerifyPartner(ctx echo.Context) error {
	params, err := bindToken(ctx)
	if err != nil {
		return err
	}
	return w.Handler.VerifyPartner(ctx, params)
}

func (w *ServerInterfaceWrapper) ResetPartnerPassword(ctx echo.Context) error {
	params, err := bindToken(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ResetPartnerPassword(ctx, params)
}

func (w *ServerInterfaceWrapper) ListShipments(ctx echo.Context) error {
	var params ListShipmentsParams
	if err := runtime.BindQueryParameter("form", true, false, "page", ctx.QueryParams(), &params.Page); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter page: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", ctx.QueryParams(), &params.Size); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter size: %s", err))
	}
	return w.Handler.ListShipments(ctx, params)
}

func (w *ServerInterfaceWrapper) RateShipment(ctx echo.Context) error {
	params, err := bindToken(ctx)
	if err != nil {
		return err
	}
	return w.Handler.RateShipment(ctx, params)
}

func (w *ServerInterfaceWrapper) withID(call func(echo.Context, openapi_types.UUID) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := w.bindID(ctx)
		if err != nil {
			return err
		}
		return call(ctx, id)
	}
}

func (w *ServerInterfaceWrapper) withIDAndTag(call func(echo.Context, openapi_types.UUID, TagParams) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := w.bindID(ctx)
		if err != nil {
			return err
		}
		params, err := bindTag(ctx)
		if err != nil {
			return err
		}
		return call(ctx, id, params)
	}
}

// EchoRouter is the part of echo.Echo and echo.Group used to register routes.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RouteMiddleware runs in front of the operations. Auth applies only to the operations
// that need an account and runs before Validate, so a stranger learns nothing about
// payload rules.
type RouteMiddleware struct {
	Auth     []echo.MiddlewareFunc
	Validate []echo.MiddlewareFunc
}

func (m RouteMiddleware) public() []echo.MiddlewareFunc {
	return m.Validate
}

func (m RouteMiddleware) protected() []echo.MiddlewareFunc {
	return append(slices.Clone(m.Auth), m.Validate...)
}

// RegisterHandlers adds every route under /api/v1.
func RegisterHandlers(router EchoRouter, si ServerInterface, m RouteMiddleware) {
	w := &ServerInterfaceWrapper{Handler: si}
	const base = "/api/v1"
	public, protected := m.public(), m.protected()

	router.POST(base+"/sellers/signup", si.SignUpSeller, public...)
	router.POST(base+"/sellers/token", si.LogInSeller, public...)
	router.GET(base+"/sellers/verify", w.VerifySeller, public...)
	router.POST(base+"/sellers/forgot_password", si.ForgotSellerPassword, public...)
	router.POST(base+"/sellers/reset_password", w.ResetSellerPassword, public...)
	router.GET(base+"/sellers/logout", si.LogOutSeller, protected...)

	router.POST(base+"/partners/signup", si.SignUpPartner, public...)
	router.POST(base+"/partners/token", si.LogInPartner, public...)
	router.GET(base+"/partners/verify", w.VerifyPartner, public...)
	router.POST(base+"/partners/forgot_password", si.ForgotPartnerPassword, public...)
	router.POST(base+"/partners/reset_password", w.ResetPartnerPassword, public...)
	router.GET(base+"/partners/logout", si.LogOutPartner, protected...)
	router.PATCH(base+"/partners/me", si.UpdatePartner, protected...)
	router.GET(base+"/partners", si.ListPartners, public...)

	router.GET(base+"/shipments", w.ListShipments, public...)
	router.POST(base+"/shipments", si.CreateShipment, protected...)
	router.POST(base+"/shipments/review", w.RateShipment, public...)
	router.GET(base+"/shipments/:id", w.withID(si.GetShipment), public...)
	router.PUT(base+"/shipments/:id", w.withID(si.UpdateShipment), protected...)
	router.PATCH(base+"/shipments/:id", w.withID(si.UpdateShipmentPartial), protected...)
	router.DELETE(base+"/shipments/:id", w.withID(si.DeleteShipment), protected...)
	router.POST(base+"/shipments/:id/cancel", w.withID(si.CancelShipment), protected...)
	router.POST(base+"/shipments/:id/tags", w.withIDAndTag(si.AddShipmentTag), protected...)
	router.DELETE(base+"/shipments/:id/tags", w.withIDAndTag(si.RemoveShipmentTag), protected...)
}
