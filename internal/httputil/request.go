package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RequestHost returns the host the client used for the request.
//
// The scheme defaults to http and only switches to https
// if the x-forwarded-proto header is set to "https".
//
// We can reasonably expect a reverse proxy to set x-forwarded-host
// as it is a de-facto standard. If it is set, we use it to construct
// the links and use the x-forwarded-prefix header as prefix. If that
// is unset, fall back to "/api".
//
// If no proxy is detected, don’t do anything.
func RequestHost(c *gin.Context) string {
	scheme := "http"
	if c.Request.Header.Get("x-forwarded-proto") == "https" {
		scheme = "https"
	}

	host := c.Request.Host
	var forwardedPrefix string

	xForwardedHost := c.Request.Header.Get("x-forwarded-host")
	if xForwardedHost != "" {
		host = xForwardedHost

		forwardedPrefix = c.Request.Header.Get("x-forwarded-prefix")

		if forwardedPrefix == "" {
			forwardedPrefix = "/api"
		}
	}

	return scheme + "://" + host + forwardedPrefix
}

// RequestPathV1 returns the URL with the prefix for API v1.
func RequestPathV1(c *gin.Context) string {
	return RequestHost(c) + "/v1"
}

// BindData binds the data from the request to the struct passed in the interface.
func BindData(c *gin.Context, data interface{}) error {
	if err := c.ShouldBindJSON(&data); err != nil {
		if errors.Is(io.EOF, err) {
			return ErrRequestBodyEmpty
		}

		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return ErrInvalidBody
	}

	return nil
}

// BodyFields returns a slice with the names of all fields
// of the resource that are set in the request body. Field names in the
// body that do not exist on the resource are rejected so that callers
// cannot update fields that are not updateable.
//
// This function reads and copies the request body, it must always
// be called before any of gin's c.*Bind methods.
func BodyFields(c *gin.Context, resource any) ([]any, error) {
	// Copy the body to be able to use it multiple times
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	// Parse the body into a map to have all fields available
	var mapBody map[string]any

	if err := json.Unmarshal(body, &mapBody); err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return []any{}, ErrInvalidBody
	}

	// Build the mapping of json names to field names
	names := make(map[string]string)
	val := reflect.Indirect(reflect.ValueOf(resource))
	for i := 0; i < val.NumField(); i++ {
		names[val.Type().Field(i).Tag.Get("json")] = val.Type().Field(i).Name
	}

	var bodyFields []any
	for param := range mapBody {
		field, ok := names[param]
		if !ok {
			return []any{}, fmt.Errorf("%w: %s", ErrInvalidField, param)
		}

		bodyFields = append(bodyFields, field)
	}

	return bodyFields, nil
}
