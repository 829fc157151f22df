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
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Params holds query parameters for a request. Slices and arrays are sent
// comma-joined, time.Time values as YYYY-MM-DD and nil values are omitted.
type Params map[string]any

// With returns a copy of p overlaid with other.
func (p Params) With(other Params) Params {
	merged := make(Params, len(p)+len(other))
	maps.Copy(merged, p)
	maps.Copy(merged, other)
	return merged
}

// Values serializes the parameters into a url.Values suitable for resty.
func (p Params) Values() (url.Values, error) {
	values := make(url.Values, len(p))
	for key, val := range p {
		str, ok, err := formatParam(val)
		if err != nil {
			return nil, fmt.Errorf("query parameter %s: %w", key, err)
		}
		if ok {
			values.Set(key, str)
		}
	}
	return values, nil
}

func formatParam(v any) (string, bool, error) {
	// pointers before Stringer: a nil *time.Time must be omitted
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false, nil
		}
		return formatParam(rv.Elem().Interface())
	}

	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case time.Time:
		if val.IsZero() {
			return "", false, nil
		}
		return val.Format(time.DateOnly), true, nil
	case fmt.Stringer:
		return val.String(), true, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "", false, nil
		}

		parts := make([]string, 0, rv.Len())
		for ii := 0; ii < rv.Len(); ii++ {
			str, ok, err := formatParam(rv.Index(ii).Interface())
			if err != nil {
				return "", false, err
			}
			if ok {
				parts = append(parts, str)
			}
		}
		return strings.Join(parts, ","), true, nil
	case reflect.String:
		return rv.String(), true, nil
	}

	str, err := cast.ToStringE(v)
	if err != nil {
		return "", false, err
	}
	return str, true, nil
}
