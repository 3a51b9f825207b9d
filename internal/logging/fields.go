package logging

import "log/slog"

// Log keys shared across packages.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldUpstream   = "upstream"
	FieldPredictor  = "predictor"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldClientIP   = "client_ip"
	FieldTeamID     = "team_id"
	FieldVenueID    = "venue_id"
	FieldPair       = "pair"
	FieldWidget     = "widget"
	FieldCount      = "count"
	FieldError      = "error"
	FieldDurationMS = "duration_ms"
)

// WithCommon appends the process identity stamped on every record. Blank
// values are left out.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	for _, a := range []slog.Attr{slog.String(FieldService, service), slog.String(FieldVersion, version)} {
		if a.Value.String() != "" {
			attrs = append(attrs, a)
		}
	}
	return attrs
}
