// Package rest implements the repository API interfaces against the ShopLite
// REST backend over the shared fasthttp client.
package rest

import (
	"fmt"
	"net/http"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
	"github.com/shoplite/client/internal/restclient"
)

// statusError maps an HTTP status to a domain error, carrying the server
// message when one was provided.
func statusError(status int, message string) *domain.Error {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	code := domain.ErrCodeRejected
	switch status {
	case http.StatusBadRequest:
		code = domain.ErrCodeInvalid
	case http.StatusUnauthorized:
		code = domain.ErrCodeUnauthorized
	case http.StatusForbidden:
		code = domain.ErrCodeForbidden
	case http.StatusNotFound:
		code = domain.ErrCodeNotFound
	case http.StatusConflict:
		code = domain.ErrCodeConflict
	default:
		if status >= 500 {
			code = domain.ErrCodeInternal
		}
	}
	return domain.NewError(code, message)
}

// authEnvelope decodes an auth-dialect response and folds transport status
// and envelope status into a single verdict.
func authEnvelope(resp *restclient.Response) (*transport.AuthEnvelope, error) {
	var env transport.AuthEnvelope
	if err := resp.Decode(&env); err != nil {
		if !resp.OK() {
			return nil, statusError(resp.StatusCode, "")
		}
		return nil, err
	}
	if !resp.OK() || !env.OK() {
		return nil, statusError(resp.StatusCode, env.Message)
	}
	return &env, nil
}

// envelope decodes a commerce-dialect response the same way.
func envelope(resp *restclient.Response) (*transport.Envelope, error) {
	var env transport.Envelope
	if err := resp.Decode(&env); err != nil {
		if !resp.OK() {
			return nil, statusError(resp.StatusCode, "")
		}
		return nil, err
	}
	if !resp.OK() || !env.OK() {
		return nil, statusError(resp.StatusCode, env.Message)
	}
	return &env, nil
}
