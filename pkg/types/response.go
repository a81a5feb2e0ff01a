package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Navigation tells a browser client where to go next and what to show there.
type Navigation struct {
	RedirectTo string `json:"redirect_to"`
	Message    string `json:"message,omitempty"`
}
