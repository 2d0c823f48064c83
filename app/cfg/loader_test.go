package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := &Cfg{
		ClientID:          "id",
		ClientSecret:      "secret",
		RefreshToken:      "token",
		BlogID:            "12345",
		FeedURL:           DefaultFeedURL,
		MaxCreatesPerRun:  3,
		MaxDeletesPerRun:  5,
		CreateDelayMs:     2000,
		DeleteDelayMs:     1000,
		FinishedOffset:    10800,
		SchedulerInterval: 300,
	}

	if err := validate(cfg); err != nil {
		t.Errorf("Expected valid configuration, got error: %v", err)
	}
}

func TestValidate_NegativeCaps(t *testing.T) {
	cfg := &Cfg{
		MaxCreatesPerRun:  -1,
		MaxDeletesPerRun:  5,
		FinishedOffset:    10800,
		SchedulerInterval: 300,
	}

	if err := validate(cfg); err == nil {
		t.Error("Expected error for negative create cap")
	}
}

func TestValidate_ZeroFinishedOffset(t *testing.T) {
	cfg := &Cfg{
		MaxCreatesPerRun:  3,
		MaxDeletesPerRun:  5,
		FinishedOffset:    0,
		SchedulerInterval: 300,
	}

	if err := validate(cfg); err == nil {
		t.Error("Expected error for zero finished offset")
	}
}

func TestValidate_ZeroCapsAllowed(t *testing.T) {
	// A zero cap disables the corresponding phase, it is not an error.
	cfg := &Cfg{
		MaxCreatesPerRun:  0,
		MaxDeletesPerRun:  0,
		FinishedOffset:    10800,
		SchedulerInterval: 300,
	}

	if err := validate(cfg); err != nil {
		t.Errorf("Zero caps should be allowed, got error: %v", err)
	}
}
