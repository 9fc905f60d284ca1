package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/windwardaviation/rescue10-aar/internal/config"
	"github.com/windwardaviation/rescue10-aar/internal/domain"
	"github.com/windwardaviation/rescue10-aar/internal/engine"
	"github.com/windwardaviation/rescue10-aar/internal/session"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	Sessions *session.Store
	App      *config.Config
	BasePath string
	Log      zerolog.Logger
}

// apiError models the error envelope: {"error": "..."}. huma serializes the
// error value itself as the response body, so the message field lives here.
type apiError struct {
	status  int
	Message string `json:"error" example:"Missing required fields: date, pilot name, and hoist operator are required."`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Message }

// New returns an HTTP handler exposing the AAR API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/api"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	// Every error, including schema validation, uses the {"error": ...} envelope.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, msg)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			// Request-shape problems are 400 bad requests.
			status = http.StatusBadRequest
		}
		return newAPIError(status, msg)
	}

	router := chi.NewRouter()
	router.Use(requestLogger(cfg.Log))
	router.Use(middleware.Recoverer)

	hcfg := huma.DefaultConfig("Rescue 10 AAR API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = ""     // custom Swagger UI below
	hcfg.CreateHooks = nil // no $schema field injected into response bodies
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerCatalog(group, cfg.App)
	registerSubmit(group, cfg.Engine)
	registerSessions(group, cfg.Sessions, cfg.Engine)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func newAPIError(status int, message string) huma.StatusError {
	return &apiError{status: status, Message: message}
}

// handleError maps engine and session errors onto the wire taxonomy.
func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var rejected engine.RejectedError
	if errors.As(err, &rejected) {
		return newAPIError(http.StatusBadRequest, rejected.Message)
	}
	var transient engine.TransientError
	if errors.As(err, &transient) {
		return newAPIError(http.StatusInternalServerError, transient.Message)
	}
	switch {
	case errors.Is(err, session.ErrNotFound):
		return newAPIError(http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrAlreadySubmitting):
		return newAPIError(http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrUnknownSection),
		errors.Is(err, domain.ErrUnknownField):
		return newAPIError(http.StatusBadRequest, err.Error())
	default:
		return newAPIError(http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}

// requestLogger attaches a request-scoped logger to the context.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr).
				Logger()
			next.ServeHTTP(w, req.WithContext(reqLogger.WithContext(req.Context())))
		})
	}
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*healthResponse, error) {
		return &healthResponse{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerCatalog(api huma.API, app *config.Config) {
	huma.Register(api, huma.Operation{
		OperationID: "get-catalog",
		Method:      http.MethodGet,
		Path:        "/catalog",
		Summary:     "Form catalog",
		Description: "Static form configuration: product identity, email recipients, and the ordered section catalog.",
	}, func(ctx context.Context, _ *struct{}) (*catalogResponse, error) {
		return &catalogResponse{Body: CatalogBody{
			Product:    app.Product.Name,
			ShortName:  app.Product.ShortName,
			Recipients: app.Mail.Recipients,
			Sections:   app.Sections,
		}}, nil
	})
}

func registerSubmit(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "submit-aar",
		Method:      http.MethodPost,
		Path:        "/submit-aar",
		Summary:     "Submit a report",
		Description: "Renders the report as a PDF and emails it to the configured recipients. Stateless: the full report travels in the body.",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body domain.Report `json:"body"`
	}) (*submitResponse, error) {
		if err := e.Submit(ctx, input.Body); err != nil {
			return nil, handleError(err)
		}
		return &submitResponse{Body: successBody{Success: true}}, nil
	})
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Rescue 10 AAR API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`, specURL)
}
