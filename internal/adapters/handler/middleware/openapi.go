package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/coursepay/internal/adapters/handler"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// LoadRouter converts a Swagger 2.0 document to OpenAPI 3 and builds a router
// over its operations.
func LoadRouter(swaggerJSON string) (routers.Router, error) {
	var doc2 openapi2.T
	if err := json.Unmarshal([]byte(swaggerJSON), &doc2); err != nil {
		return nil, fmt.Errorf("parse api document: %w", err)
	}

	doc3, err := openapi2conv.ToV3(&doc2)
	if err != nil {
		return nil, fmt.Errorf("convert api document: %w", err)
	}
	// Match on path alone; the server is whatever host serves us.
	doc3.Servers = nil

	router, err := legacy.NewRouter(doc3)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}
	return router, nil
}

// RequestValidator rejects requests whose parameters or body do not match the
// API document. Paths the document does not describe pass through.
func RequestValidator(router routers.Router, logger *slog.Logger) func(http.Handler) http.Handler {
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Debug("request rejected by api document", "path", r.URL.Path, "error", err)
				handler.WriteError(w, domain.NewValidationError(validationMessage(err)), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) || reqErr.Err == nil {
		return err.Error()
	}
	if reqErr.Parameter != nil {
		return fmt.Sprintf("invalid parameter %q: %s", reqErr.Parameter.Name, reqErr.Err)
	}
	if reqErr.RequestBody != nil {
		return "invalid request body: " + reqErr.Err.Error()
	}
	return reqErr.Error()
}
