package logkey

// Common slog attribute keys so log lines stay grep-able across packages.
const (
	TraceID   = "TRACE ID"
	ERROR     = "ERROR"
	UserID    = "UserID"
	SessionID = "SessionID"
	ProductID = "ProductID"
	VariantID = "VariantID"
	OrderID   = "OrderID"
	CartID    = "CartID"
)
