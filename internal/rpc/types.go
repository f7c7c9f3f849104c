package rpc

// Provider states - used to track the health of configured endpoints
const (
	StateHealthy   = "healthy"   // Last call succeeded
	StateDegraded  = "degraded"  // Recent consecutive failures
	StateUnhealthy = "unhealthy" // Failures reached FailoverConfig.ErrorThreshold
)

// Error reasons reported by ClassifyError
const (
	ReasonRateLimit     = "rate_limit"
	ReasonQuotaExceeded = "quota_exceeded"
	ReasonForbidden     = "forbidden"
	ReasonTimeout       = "timeout"
	ReasonConnection    = "connection_error"
	ReasonCanceled      = "canceled"
	ReasonRPCError      = "rpc_error"
	ReasonGeneric       = "generic_error"
)
