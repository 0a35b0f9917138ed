package common

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding per-browser console state.
const SessionName = "vconsole"

const browseClassKey = "browse_class"

// BrowseClass returns the class last chosen in the object browser, or "".
func BrowseClass(store sessions.Store, r *http.Request) string {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	class, _ := session.Values[browseClassKey].(string)
	return class
}

// SaveBrowseClass remembers the object browser's selection. It must run
// before any body is written.
func SaveBrowseClass(store sessions.Store, w http.ResponseWriter, r *http.Request, class string) error {
	session, err := store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values[browseClassKey] = class
	return session.Save(r, w)
}

// PickClass returns preferred when it names a known class, else the first
// class, else "".
func PickClass(classes []string, preferred string) string {
	if preferred != "" && Contains(classes, preferred) {
		return preferred
	}
	if len(classes) > 0 {
		return classes[0]
	}
	return ""
}
