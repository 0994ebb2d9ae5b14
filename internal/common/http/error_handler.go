package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AlibekovAA/user-api/internal/common/constants"
	commonerrors "github.com/AlibekovAA/user-api/internal/common/errors"
	"github.com/AlibekovAA/user-api/internal/common/errreport"
	"github.com/AlibekovAA/user-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/user-api/internal/common/logger"
	"github.com/AlibekovAA/user-api/internal/observability/metrics"
)

type ErrorHandler struct {
	log      *logger.Logger
	reporter errreport.Reporter
}

func NewErrorHandler(log *logger.Logger, reporter errreport.Reporter) *ErrorHandler {
	if reporter == nil {
		reporter = errreport.Nop{}
	}
	return &ErrorHandler{log: log, reporter: reporter}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	h.log.WithFields(ctx, logger.Fields{
		"action": "unhandled_error",
		"method": r.Method,
		"path":   r.URL.Path,
	}).Errorf("unhandled error: %v", err)
	h.reporter.CaptureException(ctx, err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, "internal server error", nil, traceID)
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError) {
	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	domainErr := err
	if traceID != "" && err.TraceID() == "" {
		domainErr = err.WithTraceID(traceID)
	}

	status := domainErr.HTTPStatus()

	logFields := logger.Fields{
		"error_code": domainErr.Code(),
		"category":   string(domainErr.Category()),
		"status":     status,
		"action":     "domain_error",
	}

	if status >= http.StatusInternalServerError {
		h.log.WithFields(ctx, logFields).Errorf("domain error: %s", domainErr.Error())
		h.reporter.CaptureException(ctx, domainErr)
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logFields).Debugf("domain error: %s", domainErr.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Category()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, status, domainErr.Code(), domainErr.Message(), nil, domainErr.TraceID())
}

func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, ok := ctx.Value(constants.TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
