// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package validation

import (
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

type settingsPayload struct {
	Prefix       *string  `json:"prefix" validate:"omitempty,min=1,max=3"`
	Modules      []string `json:"enabledModules" validate:"omitempty,unique,dive,module"`
	LogChannelID *string  `json:"logChannelId" validate:"omitempty,snowflake"`
}

func strPtr(s string) *string { return &s }

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     settingsPayload
		wantErr   bool
		wantField string
		wantTag   string
	}{
		{name: "empty payload", input: settingsPayload{}},
		{name: "single character prefix", input: settingsPayload{Prefix: strPtr("!")}},
		{name: "three character prefix", input: settingsPayload{Prefix: strPtr("!!!")}},
		{name: "four character prefix", input: settingsPayload{Prefix: strPtr("toolong")}, wantErr: true, wantField: "prefix", wantTag: "max"},
		{name: "empty prefix", input: settingsPayload{Prefix: strPtr("")}, wantErr: true, wantField: "prefix", wantTag: "min"},
		{name: "valid modules", input: settingsPayload{Modules: []string{"image", "security", "anti_spam"}}},
		{name: "uppercase module", input: settingsPayload{Modules: []string{"Image"}}, wantErr: true, wantField: "enabledModules[0]", wantTag: "module"},
		{name: "duplicate modules", input: settingsPayload{Modules: []string{"image", "image"}}, wantErr: true, wantField: "enabledModules", wantTag: "unique"},
		{name: "numeric channel", input: settingsPayload{LogChannelID: strPtr("123456789012345678")}},
		{name: "cleared channel", input: settingsPayload{LogChannelID: strPtr("")}},
		{name: "non numeric channel", input: settingsPayload{LogChannelID: strPtr("#general")}, wantErr: true, wantField: "logChannelId", wantTag: "snowflake"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateStruct() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() expected error, got nil")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestValidateStruct_PrefixMessage(t *testing.T) {
	err := ValidateStruct(&settingsPayload{Prefix: strPtr("toolong")})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := err.Error(); got != "prefix must be at most 3 characters" {
		t.Errorf("Error() = %q", got)
	}
}

// ===================================================================================================
// APIError Conversion Tests
// ===================================================================================================

func TestToAPIError(t *testing.T) {
	t.Run("single error keeps field details", func(t *testing.T) {
		err := ValidateStruct(&settingsPayload{LogChannelID: strPtr("abc")})
		if err == nil {
			t.Fatal("expected validation error")
		}
		apiErr := err.ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
		}
		if apiErr.Details["field"] != "logChannelId" {
			t.Errorf("Details[field] = %v, want logChannelId", apiErr.Details["field"])
		}
	})

	t.Run("multiple errors are joined", func(t *testing.T) {
		err := ValidateStruct(&settingsPayload{Prefix: strPtr("toolong"), LogChannelID: strPtr("abc")})
		if err == nil {
			t.Fatal("expected validation error")
		}
		apiErr := err.ToAPIError()
		if !strings.Contains(apiErr.Message, "prefix:") || !strings.Contains(apiErr.Message, "logChannelId:") {
			t.Errorf("Message = %q, want both fields", apiErr.Message)
		}
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Errorf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
		}
	})
}

func TestValidateVar(t *testing.T) {
	if err := ValidateVar("123", "required,snowflake"); err != nil {
		t.Errorf("ValidateVar(123) unexpected error: %v", err)
	}
	if err := ValidateVar("", "required,snowflake"); err == nil {
		t.Error("ValidateVar(\"\") expected error for required")
	}
	if err := ValidateVar("abc", "required,snowflake"); err == nil {
		t.Error("ValidateVar(abc) expected error")
	}
}
