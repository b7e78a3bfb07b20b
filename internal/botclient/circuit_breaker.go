// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package botclient

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

const breakerName = "remote-bot"

// BreakerSettings tunes the circuit breaker. Zero values select the defaults.
type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

func (s BreakerSettings) withDefaults() BreakerSettings {
	if s.MaxRequests == 0 {
		s.MaxRequests = 3
	}
	if s.Interval == 0 {
		s.Interval = time.Minute
	}
	if s.Timeout == 0 {
		s.Timeout = 2 * time.Minute
	}
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio == 0 {
		s.FailureRatio = 0.6
	}
	return s
}

// CircuitBreakerClient wraps a Remote with the circuit breaker pattern. While
// the breaker is open every call fails immediately, so callers move on to
// their local fallback without waiting for the bot's timeout.
type CircuitBreakerClient struct {
	remote Remote
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewCircuitBreakerClient wraps remote. By default the breaker:
// - allows 3 requests in half-open state
// - resets counts every minute while closed
// - waits 2 minutes before probing an open circuit
// - opens at a 60% failure rate over at least 10 requests
func NewCircuitBreakerClient(remote Remote, settings BreakerSettings) *CircuitBreakerClient {
	settings = settings.withDefaults()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= settings.FailureRatio
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit to remote bot")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		// A 4xx answer means the bot is up and disagreed with the request.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.StatusCode < 500
			}
			return errors.Is(err, ErrRejected)
		},
	})

	return &CircuitBreakerClient{remote: remote, cb: cb, name: breakerName}
}

// State returns the current breaker state as a string.
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

func (cbc *CircuitBreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Debug().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return result, nil
}

// GetSettings implements Remote.
func (cbc *CircuitBreakerClient) GetSettings(ctx context.Context, guildID string) (models.GuildSettings, error) {
	result, err := cbc.execute(func() (any, error) {
		return cbc.remote.GetSettings(ctx, guildID)
	})
	if err != nil {
		return models.GuildSettings{}, err
	}
	return result.(models.GuildSettings), nil
}

// PostSettings implements Remote.
func (cbc *CircuitBreakerClient) PostSettings(ctx context.Context, guildID string, patch models.SettingsPatch) error {
	_, err := cbc.execute(func() (any, error) {
		return nil, cbc.remote.PostSettings(ctx, guildID, patch)
	})
	return err
}

// GetGuilds implements Remote.
func (cbc *CircuitBreakerClient) GetGuilds(ctx context.Context) ([]models.GuildSummary, error) {
	result, err := cbc.execute(func() (any, error) {
		return cbc.remote.GetGuilds(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.GuildSummary), nil
}

// GetChannels implements Remote.
func (cbc *CircuitBreakerClient) GetChannels(ctx context.Context, guildID string) ([]models.ChannelSummary, error) {
	result, err := cbc.execute(func() (any, error) {
		return cbc.remote.GetChannels(ctx, guildID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.ChannelSummary), nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
