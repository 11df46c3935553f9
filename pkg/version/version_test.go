package version

import "testing"

func TestDefaults(t *testing.T) {
	if Version != "dev" {
		t.Errorf("default Version = %q, want %q", Version, "dev")
	}
	if GitCommit != "unknown" {
		t.Errorf("default GitCommit = %q, want %q", GitCommit, "unknown")
	}
	if !IsDev() {
		t.Error("IsDev() = false for default build")
	}
}

func TestInfo(t *testing.T) {
	if got, want := Info(), "dev (unknown) built unknown"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}
