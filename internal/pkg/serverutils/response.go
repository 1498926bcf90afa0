package serverutils

import "math"

type BaseResponse[T any] struct {
	Success    bool            `json:"success"`
	Code       int             `json:"code"`
	Message    string          `json:"message"`
	Data       T               `json:"data,omitempty"`
	Error      *ErrorDetail    `json:"error,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

func NewPaginationMeta(page, perPage int, total int64) *PaginationMeta {
	totalPages := 0
	if perPage > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(perPage)))
	}
	return &PaginationMeta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
	}
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func PaginatedResponse[T any](message string, data T, meta *PaginationMeta) BaseResponse[T] {
	res := SuccessResponse(message, data)
	res.Pagination = meta
	return res
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// DetailedErrorResponse carries a machine readable code and optional context.
func DetailedErrorResponse(code int, message, errCode string, details interface{}) BaseResponse[any] {
	res := ErrorResponse(code, message)
	res.Error = &ErrorDetail{Code: errCode, Message: message, Details: details}
	return res
}
