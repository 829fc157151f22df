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
// Package borsdata is a client for the Börsdata market-data API. Calls made
// through a Client are serialized and paced, and each resource is normalized
// into a keyed table.
package borsdata

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL        = "https://apiservice.borsdata.se/v1/"
	DefaultCallsPerSecond = 10
	DefaultTimeout        = 30 * time.Second
	APIVersion            = 1
)

// Defaults are the history caps sent with every request unless a call
// overrides them.
type Defaults struct {
	MaxYearCount int
	MaxR12QCount int
	MaxCount     int
}

var DefaultCaps = Defaults{
	MaxYearCount: 20,
	MaxR12QCount: 40,
	MaxCount:     20,
}

type Client struct {
	http     *resty.Client
	pacer    *Pacer
	defaults Defaults
	logger   zerolog.Logger

	baseURL        string
	callsPerSecond float64
	timeout        time.Duration
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithCallsPerSecond sets the pacing rate. Zero or less turns pacing off.
func WithCallsPerSecond(n float64) Option {
	return func(c *Client) {
		c.callsPerSecond = n
	}
}

// WithHTTPClient uses the supplied resty client instead of a new one. Base
// URL, timeout and the authentication key are still configured on it.
func WithHTTPClient(client *resty.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithDefaults overrides the history caps; zero fields keep the default.
func WithDefaults(defaults Defaults) Option {
	return func(c *Client) {
		if defaults.MaxYearCount > 0 {
			c.defaults.MaxYearCount = defaults.MaxYearCount
		}
		if defaults.MaxR12QCount > 0 {
			c.defaults.MaxR12QCount = defaults.MaxR12QCount
		}
		if defaults.MaxCount > 0 {
			c.defaults.MaxCount = defaults.MaxCount
		}
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client authenticating with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		defaults:       DefaultCaps,
		logger:         log.Logger,
		baseURL:        DefaultBaseURL,
		callsPerSecond: DefaultCallsPerSecond,
		timeout:        DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = resty.New()
	}

	c.http.SetBaseURL(c.baseURL).
		SetTimeout(c.timeout).
		SetQueryParam("authKey", apiKey).
		SetHeader("Accept", "application/json")
	c.http.JSONUnmarshal = json.Unmarshal
	c.http.JSONMarshal = json.Marshal

	c.pacer = NewPacer(c.callsPerSecond)

	return c
}

// Pacer exposes the client's rate state.
func (c *Client) Pacer() *Pacer {
	return c.pacer
}

// Defaults returns the history caps sent with every request.
func (c *Client) Defaults() Defaults {
	return c.defaults
}

func (c *Client) baseParams() Params {
	return Params{
		"version":      APIVersion,
		"maxYearCount": c.defaults.MaxYearCount,
		"maxR12QCount": c.defaults.MaxR12QCount,
		"maxCount":     c.defaults.MaxCount,
	}
}

func (c *Client) loggerFrom(ctx context.Context) *zerolog.Logger {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		return &c.logger
	}
	return logger
}

// Fetch issues a paced GET for path with the base parameters plus params.
// A response with a status other than 200 is not an error; check
// Response.OK or Response.Err. An error is returned only when no response
// was received.
func (c *Client) Fetch(ctx context.Context, path string, params Params) (*Response, error) {
	logger := c.loggerFrom(ctx).With().
		Str("RequestID", uuid.New().String()).
		Str("Path", path).
		Logger()

	query, err := c.baseParams().With(params).Values()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}

	var resp *resty.Response
	err = c.pacer.Do(ctx, func() error {
		var reqErr error
		resp, reqErr = c.http.R().
			SetContext(ctx).
			SetQueryParamsFromValues(query).
			Get(path)
		return reqErr
	})
	if err != nil {
		logger.Error().Err(err).Msg("request to borsdata failed")
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}

	response := &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Path:       path,
		Body:       resp.Body(),
	}

	if !response.OK() {
		logger.Error().Int("StatusCode", response.StatusCode).Bytes("Body", response.Body).Msg("borsdata returned an unexpected status code")
		return response, nil
	}

	logger.Debug().Int("StatusCode", response.StatusCode).Int("NumBytes", len(response.Body)).Dur("Elapsed", resp.Time()).Msg("fetched resource")
	return response, nil
}
