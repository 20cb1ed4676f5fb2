// Copyright 2026 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package capture

import "strings"

// Placeholder stands in for absent, blank, or "null" attribute values.
const Placeholder = "-"

// ReplaceEmpty returns Placeholder when v is empty, only whitespace, or the
// word "null" in any letter case. Other values are returned unchanged.
func ReplaceEmpty(v string) string {
	if strings.TrimSpace(v) == "" || strings.EqualFold(v, "null") {
		return Placeholder
	}
	return v
}
