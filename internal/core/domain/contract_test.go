package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidStatus(t *testing.T) {
	valid := []ContractStatus{
		StatusPending, StatusReviewing, StatusAccepted,
		StatusInProgress, StatusCompleted, StatusRejected,
	}
	for _, s := range valid {
		if !ValidStatus(s) {
			t.Fatalf("%s should be valid", s)
		}
	}

	invalid := []ContractStatus{"", "archived", "PENDING", "in-progress"}
	for _, s := range invalid {
		if ValidStatus(s) {
			t.Fatalf("%q should be invalid", s)
		}
	}
}

func TestContract_OwnedBy(t *testing.T) {
	owner := "user-1"
	owned := &Contract{UserID: &owner}
	if !owned.OwnedBy("user-1") {
		t.Fatalf("expected ownership")
	}
	if owned.OwnedBy("user-2") {
		t.Fatalf("wrong user must not own")
	}

	anonymous := &Contract{}
	if anonymous.OwnedBy("user-1") {
		t.Fatalf("anonymous contracts have no owner")
	}
}

func TestContract_AnonymousOwnerSerializesAsNull(t *testing.T) {
	data, err := json.Marshal(&Contract{ID: "c1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"userId":null`) {
		t.Fatalf("expected explicit null owner, got %s", data)
	}
}

func TestUser_PasswordHashNeverSerialized(t *testing.T) {
	data, err := json.Marshal(&User{ID: "u1", PasswordHash: "secret.salt"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "secret.salt") {
		t.Fatalf("password hash leaked: %s", data)
	}
}
