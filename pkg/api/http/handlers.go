package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aescanero/garmin-metrics/pkg/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// listMode selects between the single-value response and reading lists
type listMode int

const (
	listNone listMode = iota
	listFull
	listHalf
)

// parseListMode reads the optional "full" query parameter
func parseListMode(c *gin.Context, allowHalf bool) (listMode, error) {
	switch c.Query("full") {
	case "", "false":
		return listNone, nil
	case "true":
		return listFull, nil
	case "half":
		if allowHalf {
			return listHalf, nil
		}
	}
	return listNone, errors.New("full must be true or false")
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if s.session != nil {
		body["garmin_session"] = s.session.GetStatus()
	}

	c.JSON(http.StatusOK, body)
}

// handleVO2Max handles GET /vo2max
func (s *Server) handleVO2Max(c *gin.Context) {
	value, err := s.wellness.VO2Max(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, value)
}

// handleHRV handles GET /hrv
func (s *Server) handleHRV(c *gin.Context) {
	mode, err := parseListMode(c, false)
	if err != nil {
		s.respondBadRequest(c, err)
		return
	}

	if mode == listFull {
		list, err := s.wellness.HRVMeasurements(c.Request.Context())
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	value, err := s.wellness.HRV(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, value)
}

// handleSpO2 handles GET /spo2
func (s *Server) handleSpO2(c *gin.Context) {
	mode, err := parseListMode(c, false)
	if err != nil {
		s.respondBadRequest(c, err)
		return
	}

	if mode == listFull {
		list, err := s.wellness.SpO2Measurements(c.Request.Context())
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	value, err := s.wellness.SpO2(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, value)
}

// handleRespiratoryRate handles GET /respiratory_rate
func (s *Server) handleRespiratoryRate(c *gin.Context) {
	mode, err := parseListMode(c, true)
	if err != nil {
		s.respondBadRequest(c, err)
		return
	}

	if mode != listNone {
		list, err := s.wellness.RespiratoryMeasurements(c.Request.Context(), mode == listHalf)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	value, err := s.wellness.RespiratoryRate(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, value)
}

// respondBadRequest answers 400 for malformed query parameters
func (s *Server) respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// respondError maps a domain error to its HTTP status and error code
func (s *Server) respondError(c *gin.Context, err error) {
	status, code, message := http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch data from Garmin Connect"

	switch {
	case errors.Is(err, domain.ErrAuthentication):
		status, code, message = http.StatusServiceUnavailable, "AUTHENTICATION_FAILED", "Failed to connect to Garmin Connect"
	case errors.Is(err, domain.ErrFilterEmpty):
		status, code, message = http.StatusNotFound, "NO_MATCHING_SAMPLE", "No reading in the current half of the day"
	case errors.Is(err, domain.ErrNoData):
		status, code, message = http.StatusNotFound, "NO_DATA", "No data available for the requested date"
	}

	fields := []zap.Field{
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Info("request returned no data", fields...)
	}

	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: err.Error(),
		},
	})
}
