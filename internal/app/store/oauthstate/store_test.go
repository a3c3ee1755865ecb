package oauthstate_test

import (
	"testing"
	"time"

	oauthstate "github.com/yash2607-del/samaaj/internal/app/store/oauthstate"
	"github.com/yash2607-del/samaaj/internal/testutil"
)

func TestValidateOneTimeUse(t *testing.T) {
	s := oauthstate.New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := s.Save(ctx, "state-1", "/profile", time.Now().UTC().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	returnURL, valid, err := s.Validate(ctx, "state-1")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid || returnURL != "/profile" {
		t.Errorf("valid = %v, returnURL = %q", valid, returnURL)
	}

	// A token is consumed on first use.
	if _, valid, err := s.Validate(ctx, "state-1"); err != nil || valid {
		t.Errorf("second use: valid = %v, err = %v", valid, err)
	}
}

func TestValidateExpired(t *testing.T) {
	s := oauthstate.New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := s.Save(ctx, "stale", "/", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, valid, err := s.Validate(ctx, "stale"); err != nil || valid {
		t.Errorf("expired token: valid = %v, err = %v", valid, err)
	}
}

func TestValidateUnknown(t *testing.T) {
	s := oauthstate.New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, valid, err := s.Validate(ctx, "never-saved"); err != nil || valid {
		t.Errorf("unknown token: valid = %v, err = %v", valid, err)
	}
}
