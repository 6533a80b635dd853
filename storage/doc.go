// Copyright 2025 Poiesic Systems
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

// Package storage defines how frontier persists the results of a run.
//
// A run ends by exporting the path from the root to the best node it found as
// a core.Recording. Recordings are kept so a trajectory can be inspected or
// replayed against the problem later.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the storage interface:
//
//	repo, err := badger.NewRecordingRepository(backend) // storage.RecordingRepository
//
// Consumers such as the CLI depend only on this package, so tests can swap
// in an in-memory backend without changes.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
//
// # Context Support
//
// Every repository method accepts a context.Context. Pass
// context.Background() when no deadline applies.
package storage
