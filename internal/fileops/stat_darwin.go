// Copyright 2025 Tom Barlow
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

//go:build darwin

package fileops

import (
	"os"
	"syscall"
	"time"
)

// fileTimes returns the access time and the birth time of info.
func fileTimes(info os.FileInfo) (accessed, created time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}
	return time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec),
		time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
}
