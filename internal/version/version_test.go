package version

import "testing"

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColoredPlain(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	tests := map[string]string{
		"1.2.3":                "1.2.3",
		"0.1.0-dev":            "0.1.0-dev",
		"1.2.3-rc.1+build.123": "1.2.3-rc.1+build.123",
		"nightly":              "nightly",
	}
	for in, want := range tests {
		Version = in
		if got := Colored(false); got != want {
			t.Errorf("Colored(false) for %q = %q, want %q", in, got, want)
		}
	}
}

func TestColoredWrapsParts(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.3"
	got := Colored(true)
	if got == "1.2.3" {
		t.Fatal("expected escape sequences when color is enabled")
	}
	if Colored(false) != "1.2.3" {
		t.Error("disabling color should restore the plain form")
	}
}
