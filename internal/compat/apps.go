// Package compat knows about target applications and their versions: GUIDs,
// the catalog's integer version encoding, the version ranges compatibility
// rules apply to, and the user's configured targets.
package compat

import (
	"slices"
	"strings"
)

// App is a target application.
type App struct {
	Name  string
	Short string
	GUID  string
}

var (
	Firefox     = App{Name: "Firefox", Short: "firefox", GUID: "{ec8030f7-c20a-464f-9b0e-13a3a9e97384}"}
	Thunderbird = App{Name: "Thunderbird", Short: "thunderbird", GUID: "{3550f703-e582-4d05-9a08-453d09bdfdc6}"}
	SeaMonkey   = App{Name: "SeaMonkey", Short: "seamonkey", GUID: "{92650c4d-4b8e-4d2a-b7eb-24ecf4f6b63a}"}
	Android     = App{Name: "Firefox for Android", Short: "android", GUID: "{aa3c5121-dab2-40e2-81ca-7ea25febc110}"}
)

var apps = []App{Firefox, Thunderbird, SeaMonkey, Android}

// Apps returns every known application.
func Apps() []App {
	return slices.Clone(apps)
}

// LookupApp finds an application by GUID or short name. Short names are
// matched case-insensitively.
func LookupApp(key string) (App, bool) {
	key = strings.TrimSpace(key)
	for _, a := range apps {
		if a.GUID == key || strings.EqualFold(a.Short, key) {
			return a, true
		}
	}
	return App{}, false
}

// AppName returns a display name for a GUID, falling back to the GUID itself.
func AppName(guid string) string {
	if a, ok := LookupApp(guid); ok {
		return a.Name
	}
	return guid
}
