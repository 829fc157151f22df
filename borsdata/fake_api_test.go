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
package borsdata_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// fakeAPI serves canned bodies by request path and records every query.
type fakeAPI struct {
	mu       sync.Mutex
	bodies   map[string]string
	statuses map[string]int
	requests []*url.URL
	server   *httptest.Server
}

func newFakeAPI(bodies map[string]string) *fakeAPI {
	api := &fakeAPI{
		bodies:   bodies,
		statuses: make(map[string]int),
	}

	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.requests = append(api.requests, r.URL)
		status, hasStatus := api.statuses[r.URL.Path]
		body, hasBody := api.bodies[r.URL.Path]
		api.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case hasStatus:
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message": "rejected"}`))
		case hasBody:
			_, _ = w.Write([]byte(body))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	return api
}

func (api *fakeAPI) URL() string {
	return api.server.URL
}

func (api *fakeAPI) Close() {
	api.server.Close()
}

func (api *fakeAPI) setStatus(path string, status int) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.statuses[path] = status
}

func (api *fakeAPI) setBody(path, body string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.bodies[path] = body
}

func (api *fakeAPI) last() *url.URL {
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.requests) == 0 {
		return nil
	}
	return api.requests[len(api.requests)-1]
}

func (api *fakeAPI) paths() []string {
	api.mu.Lock()
	defer api.mu.Unlock()
	res := make([]string, len(api.requests))
	for ii, req := range api.requests {
		res[ii] = req.Path
	}
	return res
}
