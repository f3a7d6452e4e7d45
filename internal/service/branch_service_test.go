package service

import (
	"errors"
	"testing"
)

func TestBranchUniqueNameAndInactiveFilter(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewBranchService(gdb)

	head, err := svc.Create(BranchInput{Name: " Head Office ", City: "Colombo", Email: "INFO@Example.com", SortOrder: 1})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if head.Name != "Head Office" || head.Email != "info@example.com" || !head.IsActive {
		t.Fatalf("unexpected branch %+v", head)
	}

	if _, err := svc.Create(BranchInput{Name: "Head Office"}); !errors.Is(err, ErrBranchExists) {
		t.Fatalf("expected ErrBranchExists, got %v", err)
	}
	if _, err := svc.Create(BranchInput{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	inactive := false
	kandy, err := svc.Create(BranchInput{Name: "Kandy", City: "Kandy", IsActive: &inactive})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if kandy.IsActive {
		t.Fatalf("expected explicit inactive flag to persist")
	}

	if _, err := svc.Update(kandy.ID, BranchInput{Name: "Head Office"}); !errors.Is(err, ErrBranchExists) {
		t.Fatalf("expected ErrBranchExists on rename, got %v", err)
	}

	active, err := svc.List(true)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(active) != 1 || active[0].ID != head.ID {
		t.Fatalf("expected only active branch, got %+v", active)
	}
	all, err := svc.List(false)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 || all[0].ID != kandy.ID {
		t.Fatalf("expected sort order ascending, got %+v", all)
	}
}

func TestBranchDeleteDetachesMessages(t *testing.T) {
	gdb := setupServiceTestDB(t)
	branches := NewBranchService(gdb)
	contact := NewContactService(gdb)

	branch, err := branches.Create(BranchInput{Name: "Galle"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	branchID := branch.ID
	message, err := contact.Submit(ContactMessageInput{Name: "Visitor", Email: "visitor@example.com", Message: "Hello", BranchID: &branchID})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if err := branches.Delete(branch.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := branches.Delete(branch.ID); !errors.Is(err, ErrBranchNotFound) {
		t.Fatalf("expected ErrBranchNotFound, got %v", err)
	}

	stored, err := contact.Get(message.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.BranchID != nil || stored.Message != "Hello" {
		t.Fatalf("expected message kept without branch, got %+v", stored)
	}
}
