// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package borsdata

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

var (
	ErrInvalidStatusCode = errors.New("invalid status code received")
)

// Response is the raw result of a fetch. Non-200 responses are returned
// as-is so the caller can inspect them.
type Response struct {
	StatusCode int
	Status     string
	Path       string
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Err returns a *StatusError for a non-200 response and nil otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}

	return &StatusError{
		StatusCode: r.StatusCode,
		Path:       r.Path,
		Body:       r.Body,
	}
}

// StatusError reports an API response with a status other than 200.
type StatusError struct {
	StatusCode int
	Path       string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s from %s", ErrInvalidStatusCode, e.StatusCode, http.StatusText(e.StatusCode), e.Path)
}

func (e *StatusError) Unwrap() error {
	return ErrInvalidStatusCode
}
