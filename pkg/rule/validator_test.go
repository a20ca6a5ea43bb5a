package rule_test

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/yeisme/pdfvault/pkg/rule"
)

type pageRequest struct {
	FileID string `rule:"required,uuid4"`
	Pages  []int  `rule:"required,min=1,dive,min=0"`
}

func TestEngine(t *testing.T) {
	engine := rule.Engine()
	if engine == nil {
		t.Error("Engine() returned nil")
	}
}

func TestValidateStruct(t *testing.T) {
	valid := pageRequest{FileID: "8b41a943-21a1-4db2-b3c4-31a1b6be0f11", Pages: []int{0, 2}}

	err := rule.ValidateStruct(valid)
	if err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	missingID := pageRequest{Pages: []int{0}}

	err = rule.ValidateStruct(missingID)
	if err == nil {
		t.Error("Expected error for struct missing file id, got nil")
	}

	negativePage := pageRequest{FileID: "8b41a943-21a1-4db2-b3c4-31a1b6be0f11", Pages: []int{-1}}

	err = rule.ValidateStruct(negativePage)
	if err == nil {
		t.Error("Expected error for negative page index, got nil")
	}
}

func TestValidateVar(t *testing.T) {
	err := rule.ValidateVar("8b41a943-21a1-4db2-b3c4-31a1b6be0f11", "required,uuid4")
	if err != nil {
		t.Errorf("Expected no error for valid uuid, got %v", err)
	}

	err = rule.ValidateVar("not-a-uuid", "required,uuid4")
	if err == nil {
		t.Error("Expected error for invalid uuid, got nil")
	}

	err = rule.ValidateVar(0.3, "gt=0,lte=1")
	if err != nil {
		t.Errorf("Expected no error for valid opacity, got %v", err)
	}

	err = rule.ValidateVar(1.5, "gt=0,lte=1")
	if err == nil {
		t.Error("Expected error for opacity above 1, got nil")
	}
}

func TestRegisterValidation(t *testing.T) {
	err := rule.RegisterValidation("quarter_turn", func(fl validator.FieldLevel) bool {
		deg, ok := fl.Field().Interface().(int)
		if !ok {
			return false
		}

		return deg%90 == 0
	})
	if err != nil {
		t.Fatalf("Failed to register validation: %v", err)
	}

	err = rule.ValidateVar(270, "quarter_turn")
	if err != nil {
		t.Errorf("Expected no error for multiple of 90, got %v", err)
	}

	err = rule.ValidateVar(45, "quarter_turn")
	if err == nil {
		t.Error("Expected error for non quarter turn, got nil")
	}
}

func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("split_type", "required,oneof=individual every ranges")

	err := rule.ValidateVar("every", "split_type")
	if err != nil {
		t.Errorf("Expected no error for known split type, got %v", err)
	}

	err = rule.ValidateVar("halves", "split_type")
	if err == nil {
		t.Error("Expected error for unknown split type, got nil")
	}
}
