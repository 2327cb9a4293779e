package ledger

import (
	"errors"
	"testing"
)

func TestToBaseWithBaseUnit(t *testing.T) {
	r := NewUnitResolver(newFakeCatalog())
	got, err := r.ToBase("M1", "U-PCS", dec("7"))
	if err != nil {
		t.Fatalf("ToBase: %v", err)
	}
	if !got.Equal(dec("7")) {
		t.Errorf("ToBase = %s, want 7", got)
	}
}

func TestToBaseWithPackageUnit(t *testing.T) {
	r := NewUnitResolver(newFakeCatalog())
	// 1 箱 = 10 个
	got, err := r.ToBase("M1", "U-BOX", dec("2.5"))
	if err != nil {
		t.Fatalf("ToBase: %v", err)
	}
	if !got.Equal(dec("25")) {
		t.Errorf("ToBase = %s, want 25", got)
	}
}

func TestToBaseExactDecimal(t *testing.T) {
	r := NewUnitResolver(newFakeCatalog())
	// 0.1 * 10 必须精确等于 1，不允许浮点误差
	got, err := r.ToBase("M1", "U-BOX", dec("0.1"))
	if err != nil {
		t.Fatalf("ToBase: %v", err)
	}
	if !got.Equal(dec("1")) {
		t.Errorf("ToBase = %s, want exactly 1", got)
	}
}

func TestToBaseUnknownUnit(t *testing.T) {
	r := NewUnitResolver(newFakeCatalog())
	_, err := r.ToBase("M1", "U-NOPE", dec("1"))
	if !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}

func TestToBaseInactiveUnit(t *testing.T) {
	r := NewUnitResolver(newFakeCatalog())
	_, err := r.ToBase("M1", "U-OFF", dec("1"))
	if !errors.Is(err, ErrInactiveUnit) {
		t.Errorf("expected ErrInactiveUnit, got %v", err)
	}
}

func TestToBaseInactiveMaterial(t *testing.T) {
	r := NewUnitResolver(newFakeCatalog())
	_, err := r.ToBase("M-OFF", "U-PCS", dec("1"))
	if !errors.Is(err, ErrInactiveMaterial) {
		t.Errorf("expected ErrInactiveMaterial, got %v", err)
	}
}
