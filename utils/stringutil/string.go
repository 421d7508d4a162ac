/*
Copyright © 2020 Marvin

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package stringutil

import (
	"encoding/json"
	"strings"
	"time"
	"unsafe"

	"github.com/thinkeridea/go-extend/exstrings"
)

// StringBuilder used for string builder, and returns string
func StringBuilder(str ...string) string {
	var b strings.Builder
	for _, p := range str {
		b.WriteString(p)
	}
	return b.String() // no copying
}

// StringSplit used for string split, and returns array string
func StringSplit(str string, sep string) []string {
	return strings.Split(str, sep)
}

// StringJoin used for string join, and returns array string
func StringJoin(strs []string, sep string) string {
	return exstrings.Join(strs, sep)
}

// StringUpper used for string upper, and returns upper string
func StringUpper(str string) string {
	return strings.ToUpper(str)
}

// StringLower used for string lower, and returns lower string
func StringLower(str string) string {
	return strings.ToLower(str)
}

// IsContainedString used for judge items whether is contained the item, and if it's contained, return true
func IsContainedString(items []string, item string) bool {
	for _, eachItem := range items {
		if eachItem == item {
			return true
		}
	}
	return false
}

// CurrentTimeFormatString used for format time string
func CurrentTimeFormatString() string {
	return time.Now().Format("2006-01-02 15:04:05.000000")
}

// MarshalJSON returns marshal object json
func MarshalJSON(v any) (string, error) {
	marshal, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return BytesToString(marshal), nil
}

// MarshalIndentJSON returns marshal indent object json
func MarshalIndentJSON(v any) (string, error) {
	marshal, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return BytesToString(marshal), nil
}

// UnmarshalJSON returns marshal object json
func UnmarshalJSON(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// BytesToString used for bytes to string, reduce memory
// https://segmentfault.com/a/1190000037679588
func BytesToString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}
