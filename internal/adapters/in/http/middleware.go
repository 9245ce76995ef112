package http

import (
	"errors"
	"strings"

	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

const claimsKey = "access_claims"

// RoleGate decides whether an account role may call a route at all.
type RoleGate interface {
	Allowed(role, path, method string) (bool, error)
}

// Authenticate verifies the bearer token and rejects revoked ones. The verified claims
// are stored on the context for the handlers.
func Authenticate(issuer ports.AccessTokenIssuer, blacklist ports.TokenBlacklist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				return errs.NewInvalidTokenError(errors.New("missing bearer token"))
			}

			claims, err := issuer.Parse(strings.TrimSpace(token))
			if err != nil {
				return err
			}

			revoked, err := blacklist.IsRevoked(c.Request().Context(), claims.JTI)
			if err != nil {
				return err
			}
			if revoked {
				return errs.NewInvalidTokenError(errors.New("token has been revoked"))
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequireRole admits the authenticated account only if its role may reach the route.
func RequireRole(gate RoleGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := claimsFrom(c)
			if err != nil {
				return err
			}

			allowed, err := gate.Allowed(claims.Subject.Role, c.Request().URL.Path, c.Request().Method)
			if err != nil {
				return err
			}
			if !allowed {
				return errs.NewClientNotAuthorizedError(c.Request().Method + " " + c.Path())
			}
			return next(c)
		}
	}
}

func claimsFrom(c echo.Context) (ports.AccessClaims, error) {
	claims, ok := c.Get(claimsKey).(ports.AccessClaims)
	if !ok {
		return ports.AccessClaims{}, errs.NewInvalidTokenError(errors.New("request is not authenticated"))
	}
	return claims, nil
}

// ValidateRequests checks parameters and bodies against the API document before the
// handlers see them. Routes missing from the document pass through untouched, so every
// route added to RegisterHandlers needs a matching path in openapi.json.
func ValidateRequests(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			var routeErr *routers.RouteError
			if errors.As(err, &routeErr) {
				return next(c)
			}
			if err != nil {
				return err
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return errs.NewBadRequestError(firstLine(err.Error()))
			}
			return next(c)
		}
	}, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
