package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    ErrorCode
		message string
	}{
		{
			name:    "creates error with code and message",
			code:    ErrCodeEntityNotFound,
			message: "entity not found",
		},
		{
			name:    "creates validation error",
			code:    ErrCodeValidationRequired,
			message: "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, err.Code)
			}
			if err.Message != tt.message {
				t.Errorf("expected message %s, got %s", tt.message, err.Message)
			}
			if err.Internal != nil {
				t.Error("expected Internal to be nil")
			}
			if err.Error() != tt.message {
				t.Errorf("Error() should return message")
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeValidationRange, "confidence must be in [0,1], got %.1f", 1.5)
	expected := "confidence must be in [0,1], got 1.5"

	if err.Message != expected {
		t.Errorf("expected message %s, got %s", expected, err.Message)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, ErrCodeInternal, "ignored") != nil {
		t.Fatal("wrapping nil should return nil")
	}

	cause := fmt.Errorf("disk full")
	err := Wrap(cause, ErrCodeStorageTransaction, "failed to save entity")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Error() should include the cause, got %q", err.Error())
	}
	if GetMessage(err) != "failed to save entity" {
		t.Errorf("unexpected safe message %q", GetMessage(err))
	}
}

func TestIs_WalksChain(t *testing.T) {
	inner := New(ErrCodeStorageConnection, "connection refused")
	outer := Wrap(inner, ErrCodeStorageInitialization, "failed to open store")
	viaFmt := fmt.Errorf("startup: %w", outer)

	if !Is(viaFmt, ErrCodeStorageInitialization) {
		t.Error("expected outer code to match")
	}
	if !Is(viaFmt, ErrCodeStorageConnection) {
		t.Error("expected inner code to match")
	}
	if Is(viaFmt, ErrCodeEntityNotFound) {
		t.Error("unexpected code match")
	}
	if !IsAny(viaFmt, ErrCodeEntityNotFound, ErrCodeStorageConnection) {
		t.Error("IsAny should match one of the codes")
	}
	if Is(nil, ErrCodeInternal) {
		t.Error("nil never matches")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain error", fmt.Errorf("boom"), ErrCodeInternal},
		{"app error", NotFound("entity abc"), ErrCodeEntityNotFound},
		{"wrapped app error", fmt.Errorf("ctx: %w", ValidationRequired("name")), ErrCodeValidationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestToJSON_HidesInternal(t *testing.T) {
	err := Internal(fmt.Errorf("secret dsn"))
	err.WithDetails(map[string]string{"op": "put"})

	data, jerr := err.ToJSON()
	if jerr != nil {
		t.Fatalf("unexpected error: %v", jerr)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("internal cause leaked into JSON: %s", data)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["code"] != string(ErrCodeInternal) {
		t.Errorf("unexpected code %v", decoded["code"])
	}
}

func TestValidationInvalid(t *testing.T) {
	err := ValidationInvalid("type", "unknown entity type \"robot\"")
	if err.Code != ErrCodeValidationInvalid {
		t.Errorf("unexpected code %s", err.Code)
	}
	if !strings.HasPrefix(err.Message, "type is invalid") {
		t.Errorf("unexpected message %q", err.Message)
	}
}
