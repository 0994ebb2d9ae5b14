package http

import (
	"net/http"

	"github.com/AlibekovAA/user-api/internal/common/constants"
	"github.com/AlibekovAA/user-api/internal/common/errreport"
	"github.com/AlibekovAA/user-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/user-api/internal/common/logger"
)

func BuildBaseHandler(appName string, log *logger.Logger, reporter errreport.Reporter, handler http.Handler) http.Handler {
	metrics := httpmetrics.New(appName)
	recovery := RecoveryMiddleware(appName, log, reporter)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(traceID(recovery(maxRequestSize(metrics.Wrap(handler))))))
}
