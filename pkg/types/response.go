package types

import "github.com/eccentriccoder01/Bharatshaala/pkg/pagination"

// SuccessEnvelope is the uniform success body: {"success":true,"data":...}.
type SuccessEnvelope struct {
	Success    bool             `json:"success"`
	Data       any              `json:"data"`
	Message    string           `json:"message,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the uniform failure body: {"success":false,"error":{...}}.
type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}
