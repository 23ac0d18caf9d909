package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	httputils "github.com/foomo/keel/utils/net/http"
	"github.com/foomo/otaserver/pkg/metrics"
	"github.com/foomo/otaserver/pkg/mimetype"
	"github.com/foomo/otaserver/pkg/source"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultPath = "/ota.bin"

	NotFoundBody            = "<!DOCTYPE html><html><head></head><body>404: File not found</body></html>"
	InternalServerErrorBody = "<!DOCTYPE html><html><head></head><body>500: Internal Server Error</body></html>"

	headerRequestID = "X-Request-ID"
)

// ErrNotFound is returned by Resolve for any path other than the served one
var ErrNotFound = errors.New("file not found")

type (
	HTTP struct {
		l           *zap.Logger
		path        string
		source      source.Source
		contentType mimetype.ContentTyper
	}
	HTTPOption func(*HTTP)
	// Payload is a successfully resolved response body
	Payload struct {
		Data        []byte
		ContentType string
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP returns a handler serving src at a single path
func NewHTTP(l *zap.Logger, src source.Source, opts ...HTTPOption) *HTTP {
	inst := &HTTP{
		l:           l.Named("http"),
		path:        DefaultPath,
		source:      src,
		contentType: mimetype.OTA,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithPath(v string) HTTPOption {
	return func(o *HTTP) {
		o.path = v
	}
}

func WithContentTyper(v mimetype.ContentTyper) HTTPOption {
	return func(o *HTTP) {
		o.contentType = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (h *HTTP) Path() string {
	return h.path
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Resolve reads the source when requestedPath is the served path.
// The content type always derives from the source name, never from the request.
func (h *HTTP) Resolve(ctx context.Context, requestedPath string) (*Payload, error) {
	if requestedPath != h.path {
		return nil, ErrNotFound
	}
	data, err := h.source.Read(ctx)
	if err != nil {
		return nil, err
	}
	return &Payload{
		Data:        data,
		ContentType: h.contentType.TypeByName(h.source.Name()),
	}, nil
}

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := h.serve(w, r)
	metrics.RequestCounter.WithLabelValues(r.Method, string(result)).Inc()
	metrics.RequestDuration.WithLabelValues(r.Method, string(result)).Observe(time.Since(start).Seconds())
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) serve(w http.ResponseWriter, r *http.Request) Result {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httputils.ServerError(h.l, w, r, http.StatusNotImplemented, errors.Errorf("unsupported method (%s)", r.Method))
		return ResultNotImplemented
	}

	payload, err := h.Resolve(r.Context(), r.RequestURI)
	if errors.Is(err, ErrNotFound) {
		h.writeHTML(w, r, http.StatusNotFound, NotFoundBody)
		return ResultNotFound
	} else if err != nil {
		h.requestLogger(r).Error("failed to read binary file",
			zap.String("path", r.RequestURI),
			zap.Error(err),
		)
		metrics.SourceReadFailedCounter.WithLabelValues().Inc()
		h.writeHTML(w, r, http.StatusInternalServerError, InternalServerErrorBody)
		return ResultReadFailed
	}

	w.Header().Set("Content-Type", payload.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload.Data)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return ResultOK
	}

	n, err := w.Write(payload.Data)
	metrics.ServedBytesCounter.WithLabelValues().Add(float64(n))
	if err != nil {
		h.requestLogger(r).Warn("failed to write payload", zap.Int("written", n), zap.Error(err))
	}
	return ResultOK
}

// writeHTML sends status with a literal html body, headers only for HEAD
func (h *HTTP) writeHTML(w http.ResponseWriter, r *http.Request, status int, body string) {
	w.Header().Set("Content-Type", "text/html")
	if r.Method == http.MethodHead {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		h.requestLogger(r).Debug("failed to write response", zap.Int("status", status), zap.Error(err))
	}
}

func (h *HTTP) requestLogger(r *http.Request) *zap.Logger {
	id := r.Header.Get(headerRequestID)
	if id == "" {
		id = uuid.New().String()
	}
	return h.l.With(zap.String("request_id", id))
}
