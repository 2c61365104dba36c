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


package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opsgrid/faultline/ai"
	"github.com/opsgrid/faultline/core"
	"github.com/opsgrid/faultline/search"
)

// NoMatchesAnswer is returned without a generation call when the search
// produced no similar incidents.
const NoMatchesAnswer = "No similar past incidents were found for this issue."

// Answer is a resolution suggestion with the evidence it was based on.
type Answer struct {
	Summary   string
	Incidents []core.SearchResult
}

// Resolver composes incident search with a generation model.
type Resolver struct {
	searcher  *search.Searcher
	generator ai.Generator
	mode      search.Mode
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMode sets the retrieval mode. Default is search.ModeHybrid.
func WithMode(mode search.Mode) Option {
	return func(r *Resolver) {
		if mode != "" {
			r.mode = mode
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a resolver over the given searcher and generator.
func New(searcher *search.Searcher, generator ai.Generator, opts ...Option) (*Resolver, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	r := &Resolver{
		searcher:  searcher,
		generator: generator,
		mode:      search.ModeHybrid,
		logger:    slog.Default().With("component", "resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve retrieves the incidents most similar to the query and asks the
// generation model for a structured resolution summary in one call. An
// empty retrieval short-circuits with NoMatchesAnswer.
func (r *Resolver) Resolve(ctx context.Context, query string) (*Answer, error) {
	incidents, err := r.searcher.Search(ctx, query, r.mode)
	if err != nil {
		return nil, fmt.Errorf("retrieving similar incidents: %w", err)
	}

	if len(incidents) == 0 {
		r.logger.Info("no similar incidents found", "query", query)
		return &Answer{Summary: NoMatchesAnswer}, nil
	}

	prompt, err := buildPrompt(query, incidents)
	if err != nil {
		return nil, err
	}

	summary, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating resolution summary: %w", err)
	}

	r.logger.Debug("resolution generated", "incidents", len(incidents))
	return &Answer{Summary: summary, Incidents: incidents}, nil
}
