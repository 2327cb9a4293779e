package ledger

import (
	"errors"
	"testing"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
)

func TestApproveDraft(t *testing.T) {
	next, err := Approve(entity.StatusDraft)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if next != entity.StatusApproved {
		t.Errorf("next = %s, want %s", next, entity.StatusApproved)
	}
}

func TestApproveRejectsNonDraft(t *testing.T) {
	for _, cur := range []entity.DocumentStatus{
		entity.StatusApproved,
		entity.StatusPartiallyFulfilled,
	} {
		if _, err := Approve(cur); err == nil {
			t.Errorf("Approve(%s): expected error", cur)
		}
	}
}

func TestApproveRejectsTerminal(t *testing.T) {
	for _, cur := range []entity.DocumentStatus{
		entity.StatusFullyFulfilled,
		entity.StatusCancelled,
	} {
		if _, err := Approve(cur); !errors.Is(err, ErrAlreadyTerminal) {
			t.Errorf("Approve(%s): expected ErrAlreadyTerminal, got %v", cur, err)
		}
	}
}

func TestCancel(t *testing.T) {
	for _, cur := range []entity.DocumentStatus{
		entity.StatusDraft,
		entity.StatusApproved,
		entity.StatusPartiallyFulfilled,
	} {
		next, err := Cancel(cur)
		if err != nil {
			t.Fatalf("Cancel(%s): %v", cur, err)
		}
		if next != entity.StatusCancelled {
			t.Errorf("Cancel(%s) = %s, want %s", cur, next, entity.StatusCancelled)
		}
	}
	for _, cur := range []entity.DocumentStatus{
		entity.StatusFullyFulfilled,
		entity.StatusCancelled,
	} {
		if _, err := Cancel(cur); !errors.Is(err, ErrAlreadyTerminal) {
			t.Errorf("Cancel(%s): expected ErrAlreadyTerminal, got %v", cur, err)
		}
	}
}

func TestAdvanceMonotonic(t *testing.T) {
	cases := []struct {
		cur  entity.DocumentStatus
		f    Fulfillment
		want entity.DocumentStatus
	}{
		{entity.StatusApproved, FulfillmentPartial, entity.StatusPartiallyFulfilled},
		{entity.StatusApproved, FulfillmentFull, entity.StatusFullyFulfilled},
		{entity.StatusPartiallyFulfilled, FulfillmentPartial, entity.StatusPartiallyFulfilled},
		{entity.StatusPartiallyFulfilled, FulfillmentFull, entity.StatusFullyFulfilled},
		// 无订购量进度的一次性单据保持原状态，由调用方决定
		{entity.StatusApproved, FulfillmentNone, entity.StatusApproved},
	}
	for _, c := range cases {
		next, err := Advance(c.cur, c.f)
		if err != nil {
			t.Fatalf("Advance(%s, %d): %v", c.cur, c.f, err)
		}
		if next != c.want {
			t.Errorf("Advance(%s, %d) = %s, want %s", c.cur, c.f, next, c.want)
		}
	}
}

func TestAdvanceRejectsDraftAndTerminal(t *testing.T) {
	if _, err := Advance(entity.StatusDraft, FulfillmentFull); err == nil {
		t.Error("Advance(draft): expected error")
	}
	for _, cur := range []entity.DocumentStatus{
		entity.StatusFullyFulfilled,
		entity.StatusCancelled,
	} {
		if _, err := Advance(cur, FulfillmentFull); !errors.Is(err, ErrAlreadyTerminal) {
			t.Errorf("Advance(%s): expected ErrAlreadyTerminal, got %v", cur, err)
		}
	}
}

func TestExecutable(t *testing.T) {
	executable := map[entity.DocumentStatus]bool{
		entity.StatusDraft:              false,
		entity.StatusApproved:           true,
		entity.StatusPartiallyFulfilled: true,
		entity.StatusFullyFulfilled:     false,
		entity.StatusCancelled:          false,
	}
	for cur, want := range executable {
		if got := Executable(cur); got != want {
			t.Errorf("Executable(%s) = %v, want %v", cur, got, want)
		}
	}
}
