// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// ActivityAction identifies the kind of configuration change an ActivityEntry records.
type ActivityAction string

const (
	ActionPrefixUpdate     ActivityAction = "prefix_update"
	ActionCogsUpdate       ActivityAction = "cogs_update"
	ActionLogChannelUpdate ActivityAction = "log_channel_update"

	// actionFeaturesUpdate is the older name of ActionCogsUpdate still found in
	// settings documents written by earlier dashboard versions.
	actionFeaturesUpdate ActivityAction = "features_update"
)

// Normalize maps legacy aliases onto their current action name.
func (a ActivityAction) Normalize() ActivityAction {
	if a == actionFeaturesUpdate {
		return ActionCogsUpdate
	}
	return a
}

// Valid reports whether a is a known action (aliases included).
func (a ActivityAction) Valid() bool {
	switch a.Normalize() {
	case ActionPrefixUpdate, ActionCogsUpdate, ActionLogChannelUpdate:
		return true
	default:
		return false
	}
}

// UnmarshalJSON accepts legacy aliases.
func (a *ActivityAction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = ActivityAction(s).Normalize()
	return nil
}

// ActivityEntry is one recorded configuration change. Entries are immutable
// once appended; Data carries the action-specific payload verbatim.
type ActivityEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Action    ActivityAction  `json:"action"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewActivityEntry encodes data as the entry payload. The timestamp is left
// zero so that the activity log stamps it on append.
func NewActivityEntry(action ActivityAction, data interface{}) (ActivityEntry, error) {
	entry := ActivityEntry{Action: action}
	if data == nil {
		return entry, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return ActivityEntry{}, err
	}
	entry.Data = raw
	return entry, nil
}

// Clone returns a deep copy of the entry.
func (e ActivityEntry) Clone() ActivityEntry {
	out := e
	if e.Data != nil {
		out.Data = append(json.RawMessage(nil), e.Data...)
	}
	return out
}
