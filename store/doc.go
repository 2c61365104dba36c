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


// Package store defines the narrow contracts for the two external stores
// this system depends on: a relational table store owning record durability
// (store/postgres) and a document index with hybrid keyword + vector search
// (store/elastic).
//
// Both stores are externally shared and externally consistent. This module
// holds no locks over them; snapshot-then-apply reconciliation carries a
// read-then-write race, so correctness under concurrent ingestion of
// overlapping incident IDs is not guaranteed.
package store
