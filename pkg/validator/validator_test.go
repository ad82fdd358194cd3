package validator

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	v := New()
	if v == nil {
		t.Fatal("expected validator to be created")
	}
	if v.validate == nil {
		t.Fatal("expected internal validator to be initialized")
	}
}

func TestValidate_RequiredField(t *testing.T) {
	v := New()

	type TestStruct struct {
		Name string `validate:"required"`
	}

	tests := []struct {
		name    string
		input   TestStruct
		wantErr bool
	}{
		{
			name:    "valid - name provided",
			input:   TestStruct{Name: "test"},
			wantErr: false,
		},
		{
			name:    "invalid - name empty",
			input:   TestStruct{Name: ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEntityName(t *testing.T) {
	v := New()

	type TestStruct struct {
		Name string `validate:"required,max=128,entity_name"`
	}

	tests := []struct {
		name    string
		input   TestStruct
		wantErr bool
	}{
		{name: "valid - simple", input: TestStruct{Name: "admin"}, wantErr: false},
		{name: "valid - with spaces inside", input: TestStruct{Name: "content editor"}, wantErr: false},
		{name: "valid - punctuation", input: TestStruct{Name: "asset:read"}, wantErr: false},
		{name: "valid - single character", input: TestStruct{Name: "a"}, wantErr: false},
		{name: "valid - at max length", input: TestStruct{Name: strings.Repeat("x", 128)}, wantErr: false},
		{name: "invalid - leading space", input: TestStruct{Name: " admin"}, wantErr: true},
		{name: "invalid - trailing space", input: TestStruct{Name: "admin "}, wantErr: true},
		{name: "invalid - only whitespace", input: TestStruct{Name: "   "}, wantErr: true},
		{name: "invalid - over max length", input: TestStruct{Name: strings.Repeat("x", 129)}, wantErr: true},
		{name: "invalid - empty", input: TestStruct{Name: ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_OptionalPointerField(t *testing.T) {
	v := New()

	type TestStruct struct {
		Summary *string `validate:"omitempty,max=10"`
	}

	long := strings.Repeat("x", 11)
	short := "ok"

	tests := []struct {
		name    string
		input   TestStruct
		wantErr bool
	}{
		{name: "valid - absent", input: TestStruct{}, wantErr: false},
		{name: "valid - present and short", input: TestStruct{Summary: &short}, wantErr: false},
		{name: "invalid - present and too long", input: TestStruct{Summary: &long}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	tests := []struct {
		name     string
		errors   ValidationErrors
		expected string
	}{
		{
			name:     "empty errors",
			errors:   ValidationErrors{},
			expected: "",
		},
		{
			name: "single error",
			errors: ValidationErrors{
				{Field: "name", Message: "is required"},
			},
			expected: "name: is required",
		},
		{
			name: "multiple errors",
			errors: ValidationErrors{
				{Field: "name", Message: "is required"},
				{Field: "summary", Message: "must be at most 1024 characters"},
			},
			expected: "name: is required; summary: must be at most 1024 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.errors.Error()
			if result != tt.expected {
				t.Errorf("Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestValidate_FieldNamesAreSnakeCase(t *testing.T) {
	v := New()

	type TestStruct struct {
		RoleName string `validate:"required"`
	}

	err := v.Validate(TestStruct{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "role_name" {
		t.Errorf("expected field role_name, got %+v", verrs)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "Name", expected: "name"},
		{input: "FirstName", expected: "first_name"},
		{input: "simple", expected: "simple"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := toSnakeCase(tt.input)
			if result != tt.expected {
				t.Errorf("toSnakeCase(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
