package dto

import "learnhub-be/internal/pkg/logger"

type LogListQuery struct {
	Level  string `query:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

type LogListResponse struct {
	Logs   []logger.LogEntry `json:"logs"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}
