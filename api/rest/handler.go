package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/hedisam/fabexplorer/api/rest"

// Err is an error with the HTTP status it should be served with.
type Err struct {
	Message    string `json:"error"`
	StatusCode int    `json:"-"`
}

func (e *Err) Error() string {
	return e.Message
}

func NewErrf(statusCode int, format string, args ...any) *Err {
	return &Err{
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// HandlerFunc is a typed request handler. Returned errors that are not *Err are
// served as 500.
type HandlerFunc[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)

// RegisterFunc registers fn on mux for method and path. The request is bound
// from the JSON body and from the `path`, `query` and `header` struct tags of Req.
func RegisterFunc[Req, Resp any](logger *logrus.Logger, mux *http.ServeMux, method, path string, fn HandlerFunc[Req, Resp]) {
	pattern := method + " " + path
	tracer := otel.Tracer(tracerName)

	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), pattern)
		defer span.End()
		start := time.Now()

		status := http.StatusOK
		defer func() {
			span.SetAttributes(attribute.Int("http.status_code", status))
			requestDuration.WithLabelValues(pattern, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		}()

		req := new(Req)
		if err := bind(r, req); err != nil {
			logger.WithError(err).WithField("pattern", pattern).Warn("Failed to bind request")
			status = http.StatusBadRequest
			writeJSON(logger, w, status, NewErrf(status, "Invalid request: %s", err))
			return
		}

		resp, err := fn(ctx, req)
		if err != nil {
			apiErr := &Err{}
			if !errors.As(err, &apiErr) {
				logger.WithError(err).WithField("pattern", pattern).Error("Handler returned an unexpected error")
				apiErr = NewErrf(http.StatusInternalServerError, "Internal server error")
			}
			status = apiErr.StatusCode
			span.SetStatus(codes.Error, apiErr.Message)
			writeJSON(logger, w, status, apiErr)
			return
		}

		writeJSON(logger, w, status, resp)
	})
}

func writeJSON(logger *logrus.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("Failed to write response")
	}
}

func bind(r *http.Request, req any) error {
	if r.Body != nil && r.Method != http.MethodGet {
		err := json.NewDecoder(r.Body).Decode(req)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode body: %w", err)
		}
	}

	v := reflect.ValueOf(req).Elem()
	if v.Kind() != reflect.Struct {
		return nil
	}
	bindFields(r, v)
	return nil
}

func bindFields(r *http.Request, v reflect.Value) {
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		fv := v.Field(i)
		if field.Anonymous && fv.Kind() == reflect.Struct {
			bindFields(r, fv)
			continue
		}
		if !field.IsExported() || fv.Kind() != reflect.String {
			continue
		}

		var value string
		switch {
		case field.Tag.Get("path") != "":
			value = r.PathValue(field.Tag.Get("path"))
		case field.Tag.Get("query") != "":
			value = r.URL.Query().Get(field.Tag.Get("query"))
		case field.Tag.Get("header") != "":
			value = r.Header.Get(field.Tag.Get("header"))
		default:
			continue
		}
		if value != "" {
			fv.SetString(value)
		}
	}
}
